package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sistema-salt/salt-backend/internal/auth"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/service"
	"github.com/sistema-salt/salt-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testAPI is the full router mounted over linked mock repositories
type testAPI struct {
	t       *testing.T
	e       *echo.Echo
	store   *testutil.MockStore
	tokens  *auth.TokenService
	limiter *middleware.RateLimiter
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := testutil.NewMockStore()
	tokens := newTestTokens(t)
	limiter := middleware.NewRateLimiterWithConfig(1000, 1000)
	t.Cleanup(limiter.Stop)

	e := echo.New()
	RegisterRoutes(e, middleware.NewAuthMiddleware(tokens), limiter, Handlers{
		Auth:          NewAuthHandler(service.NewAuthService(store.Users, tokens)),
		User:          NewUserHandler(service.NewUserService(store.Users)),
		Category:      NewCategoryHandler(service.NewCategoryService(store.Categories)),
		Product:       NewProductHandler(service.NewProductService(store.Products)),
		Communication: NewCommunicationHandler(service.NewCommunicationService(store.Communications)),
		Financial:     NewFinancialHandler(service.NewFinancialService(store.Financials)),
		Project:       NewProjectHandler(service.NewProjectService(store.Projects)),
		Task:          NewTaskHandler(service.NewTaskService(store.Tasks)),
	})

	return &testAPI{t: t, e: e, store: store, tokens: tokens, limiter: limiter}
}

// seedUser stores a user directly and returns a token for it
func (a *testAPI) seedUser(id int32, role domain.Role) string {
	a.t.Helper()
	user := &domain.User{
		ID:           id,
		Name:         fmt.Sprintf("User %d", id),
		Email:        fmt.Sprintf("user%d@salt.test", id),
		PasswordHash: "unused",
		Role:         role,
	}
	a.store.Users.AddUser(user)

	token, err := a.tokens.Issue(user)
	require.NoError(a.t, err)
	return token
}

func (a *testAPI) do(method, path, body, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// setupAuthContext attaches an identity to a bare echo context for direct handler calls
func setupAuthContext(c echo.Context, userID int32, role domain.Role) {
	identity := &auth.Identity{UserID: userID, Role: role}
	c.SetRequest(c.Request().WithContext(middleware.WithIdentity(c.Request().Context(), identity)))
}

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}
