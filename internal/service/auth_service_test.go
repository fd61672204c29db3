package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sistema-salt/salt-backend/internal/auth"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/testutil"
)

func newTestAuthService(t *testing.T) (*AuthService, *testutil.MockUserRepository, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.Options{Secret: []byte("test-secret")})
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}
	userRepo := testutil.NewMockUserRepository()
	return NewAuthService(userRepo, tokens), userRepo, tokens
}

func TestRegister_ThenLogin(t *testing.T) {
	authService, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	registered, err := authService.Register(ctx, RegisterInput{
		Name:     "Ana",
		Email:    "ana@salt.app",
		Password: "segredo123",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if registered.User.PasswordHash == "segredo123" {
		t.Error("Password must be stored hashed")
	}

	loggedIn, err := authService.Login(ctx, "ana@salt.app", "segredo123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Errorf("Expected user %d, got %d", registered.User.ID, loggedIn.User.ID)
	}

	identity, err := tokens.Verify(ctx, loggedIn.Token)
	if err != nil {
		t.Fatalf("Expected issued token to verify, got %v", err)
	}
	if identity.Role != domain.RoleAdmin {
		t.Errorf("Expected token role admin, got %s", identity.Role)
	}
	if identity.UserID != registered.User.ID {
		t.Errorf("Expected token id %d, got %d", registered.User.ID, identity.UserID)
	}
}

func TestRegister_DefaultsRoleToUser(t *testing.T) {
	authService, _, _ := newTestAuthService(t)

	result, err := authService.Register(context.Background(), RegisterInput{
		Name: "Bruno", Email: "bruno@salt.app", Password: "x",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.User.Role != domain.RoleUser {
		t.Errorf("Expected role user, got %s", result.User.Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	authService, userRepo, _ := newTestAuthService(t)
	ctx := context.Background()

	input := RegisterInput{Name: "Ana", Email: "ana@salt.app", Password: "x"}
	if _, err := authService.Register(ctx, input); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := authService.Register(ctx, input)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
	if len(userRepo.Users) != 1 {
		t.Errorf("Expected exactly 1 stored user, got %d", len(userRepo.Users))
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		input    RegisterInput
		expected error
	}{
		{"missing name", RegisterInput{Email: "a@b.c", Password: "x"}, domain.ErrNameRequired},
		{"missing email", RegisterInput{Name: "A", Password: "x"}, domain.ErrEmailRequired},
		{"missing password", RegisterInput{Name: "A", Email: "a@b.c"}, domain.ErrPasswordRequired},
		{"unknown role", RegisterInput{Name: "A", Email: "a@b.c", Password: "x", Role: "root"}, domain.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService, userRepo, _ := newTestAuthService(t)

			_, err := authService.Register(context.Background(), tt.input)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
			if len(userRepo.Users) != 0 {
				t.Error("No user should be stored on validation failure")
			}
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	authService, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := authService.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@salt.app", Password: "certa"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := authService.Login(ctx, "ninguem@salt.app", "certa"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if _, err := authService.Login(ctx, "ana@salt.app", "errada"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestMe(t *testing.T) {
	authService, userRepo, _ := newTestAuthService(t)
	userRepo.AddUser(&domain.User{ID: 3, Name: "Carla", Email: "carla@salt.app", Role: domain.RoleUser})

	user, err := authService.Me(context.Background(), 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Name != "Carla" {
		t.Errorf("Expected Carla, got %s", user.Name)
	}

	if _, err := authService.Me(context.Background(), 99); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for a deleted account, got %v", err)
	}
}

func TestRegister_PublishesEvent(t *testing.T) {
	authService, _, _ := newTestAuthService(t)
	publisher := &recordingPublisher{}
	authService.SetEventPublisher(publisher)

	if _, err := authService.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	types := publisher.types()
	if len(types) != 1 || types[0] != "user.created" {
		t.Errorf("Expected [user.created], got %v", types)
	}
}
