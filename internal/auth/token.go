// Package auth issues and verifies the bearer tokens used by the API.
//
// Tokens are HS256 JWTs carrying the user's id and role. Issuance uses
// golang-jwt; verification goes through the go-jwt-middleware validator
// so issuer, audience and expiry are checked in one place. There is no
// revocation list: expiry is the only way a token stops being valid.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

const (
	// DefaultTokenTTL is how long an issued token stays valid
	DefaultTokenTTL = 7 * 24 * time.Hour
	DefaultIssuer   = "salt-backend"
	DefaultAudience = "salt-app"
)

// Identity is the decoded caller attached to authenticated requests
type Identity struct {
	UserID int32
	Role   domain.Role
	// ExpiresAt is when the presented token stops being valid
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller holds the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == domain.RoleAdmin
}

// Options configures token issuance and verification
type Options struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	// Now overrides the clock used for issuance (tests only)
	Now func() time.Time
}

// issuedClaims is the payload written into new tokens
type issuedClaims struct {
	jwt.RegisteredClaims
	UserID int32  `json:"id"`
	Role   string `json:"role"`
}

// CustomClaims holds the application claims read back during verification
type CustomClaims struct {
	UserID int32  `json:"id"`
	Role   string `json:"role"`
}

// Validate implements validator.CustomClaims
func (c *CustomClaims) Validate(ctx context.Context) error {
	if c.UserID <= 0 {
		return errors.New("missing user id claim")
	}
	if !domain.Role(c.Role).Valid() {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	return nil
}

// TokenService mints and validates bearer tokens
type TokenService struct {
	secret    []byte
	issuer    string
	audience  string
	ttl       time.Duration
	now       func() time.Time
	validator *validator.Validator
}

// NewTokenService creates a TokenService from the given options
func NewTokenService(opts Options) (*TokenService, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTokenTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Issuer == "" {
		opts.Issuer = DefaultIssuer
	}
	if opts.Audience == "" {
		opts.Audience = DefaultAudience
	}

	secret := opts.Secret
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	v, err := validator.New(
		keyFunc,
		validator.HS256,
		opts.Issuer,
		[]string{opts.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create token validator: %w", err)
	}

	return &TokenService{
		secret:    secret,
		issuer:    opts.Issuer,
		audience:  opts.Audience,
		ttl:       opts.TTL,
		now:       opts.Now,
		validator: v,
	}, nil
}

// Issue signs a token embedding the user's id and role
func (s *TokenService) Issue(user *domain.User) (string, error) {
	if user == nil || user.ID <= 0 {
		return "", errors.New("cannot issue token for unsaved user")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, issuedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: user.ID,
		Role:   string(user.Role),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer, audience and expiry and returns the caller identity.
// Every failure is reported as domain.ErrUnauthorized.
func (s *TokenService) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := s.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	custom, ok := validated.CustomClaims.(*CustomClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return &Identity{
		UserID:    custom.UserID,
		Role:      domain.Role(custom.Role),
		ExpiresAt: time.Unix(validated.RegisteredClaims.Expiry, 0),
	}, nil
}

// TTL returns the configured token lifetime
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
