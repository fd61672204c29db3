package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/auth"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/websocket"
)

// TokenIssuer mints bearer tokens for authenticated users
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// AuthService handles registration and login
type AuthService struct {
	eventSource
	userRepo domain.UserRepository
	tokens   TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User  *domain.User
	Token string
}

// RegisterInput holds the fields accepted by Register
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a user with a bcrypt-hashed password and returns a token for it
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, domain.ErrEmailRequired
	}
	if input.Password == "" {
		return nil, domain.ErrPasswordRequired
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Int32("user_id", user.ID).Msg("Failed to issue token")
		return nil, err
	}

	log.Info().Int32("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered")
	s.publishEvent(websocket.Created(websocket.EntityTypeUser, user))

	return &AuthResult{User: user, Token: token}, nil
}

// Login checks the credentials and returns a fresh token.
// Unknown email yields ErrUserNotFound and a wrong password ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrEmailRequired
	}
	if password == "" {
		return nil, domain.ErrPasswordRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		log.Error().Err(err).Int32("user_id", user.ID).Msg("Failed to compare password hash")
		return nil, err
	}
	if !ok {
		log.Debug().Int32("user_id", user.ID).Msg("Login with wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Int32("user_id", user.ID).Msg("Failed to issue token")
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Me returns the user behind an authenticated identity
func (s *AuthService) Me(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// token outlived its account
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
