package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/service"
)

// AuthHandler handles registration, login and the current-user lookup
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses. The password hash never leaves the server.
type UserResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and returns it with a token
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "New account"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	result, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		return NewInternalError(c, "Erro ao registrar usuário")
	}

	return c.JSON(http.StatusOK, AuthResponse{
		User:  toUserResponse(result.User),
		Token: result.Token,
	})
}

// Login exchanges credentials for a token
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// an unknown email is a bad request here, not a missing resource
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewValidationError(c, "Usuário não encontrado", nil)
		}
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to log in")
		return NewInternalError(c, "Erro ao fazer login")
	}

	log.Info().Int32("user_id", result.User.ID).Msg("User logged in")

	return c.JSON(http.StatusOK, AuthResponse{
		User:  toUserResponse(result.User),
		Token: result.Token,
	})
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ProblemDetails
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Token não fornecido")
	}

	user, err := h.authService.Me(c.Request().Context(), identity.UserID)
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("user_id", identity.UserID).Msg("Failed to get current user")
		return NewInternalError(c, "Erro ao buscar usuário")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
