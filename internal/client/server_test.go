package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sistema-salt/salt-backend/internal/auth"
	"github.com/sistema-salt/salt-backend/internal/handler"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/service"
	"github.com/sistema-salt/salt-backend/internal/testutil"
	"github.com/sistema-salt/salt-backend/internal/websocket"
	"github.com/stretchr/testify/require"
)

// testServer runs the real API over mock repositories
type testServer struct {
	*httptest.Server
	repos  *testutil.MockStore
	tokens *auth.TokenService
	hub    *websocket.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repos := testutil.NewMockStore()
	tokens, err := auth.NewTokenService(auth.Options{Secret: []byte("client-test-secret")})
	require.NoError(t, err)

	hub := websocket.NewHub()
	authService := service.NewAuthService(repos.Users, tokens)
	userService := service.NewUserService(repos.Users)
	categoryService := service.NewCategoryService(repos.Categories)
	productService := service.NewProductService(repos.Products)
	communicationService := service.NewCommunicationService(repos.Communications)
	financialService := service.NewFinancialService(repos.Financials)
	projectService := service.NewProjectService(repos.Projects)
	taskService := service.NewTaskService(repos.Tasks)
	taskService.SetEventPublisher(hub)
	projectService.SetEventPublisher(hub)

	limiter := middleware.NewRateLimiterWithConfig(1000, 1000)
	t.Cleanup(limiter.Stop)

	e := echo.New()
	handler.RegisterRoutes(e, middleware.NewAuthMiddleware(tokens), limiter, handler.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(userService),
		Category:      handler.NewCategoryHandler(categoryService),
		Product:       handler.NewProductHandler(productService),
		Communication: handler.NewCommunicationHandler(communicationService),
		Financial:     handler.NewFinancialHandler(financialService),
		Project:       handler.NewProjectHandler(projectService),
		Task:          handler.NewTaskHandler(taskService),
	})
	e.GET("/ws", handler.NewWebSocketHandler(hub, tokens, nil).HandleWS)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &testServer{Server: server, repos: repos, tokens: tokens, hub: hub}
}

func (s *testServer) newClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: s.URL})
	require.NoError(t, err)
	return c
}

// register creates an account through the API with the password "segredo"
func (s *testServer) register(t *testing.T, name, email, role string) {
	t.Helper()
	_, err := s.newClient(t).Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: "segredo",
		Role:     role,
	})
	require.NoError(t, err)
}

func ptr[T any](v T) *T {
	return &v
}
