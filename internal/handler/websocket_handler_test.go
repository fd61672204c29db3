package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sistema-salt/salt-backend/internal/auth"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowedOrigins = []string{"http://localhost:5173", "https://salt.example"}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.Options{Secret: []byte("handler-test-secret")})
	require.NoError(t, err)
	return tokens
}

func TestWebSocketHandler_HandleWS_MissingToken(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), newTestTokens(t), testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HandleWS(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token não fornecido")
}

func TestWebSocketHandler_HandleWS_InvalidToken(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), newTestTokens(t), testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=invalid-jwt", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HandleWS(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token inválido")
}

func TestWebSocketHandler_HandleWS_ValidToken_NoUpgrade(t *testing.T) {
	e := echo.New()
	tokens := newTestTokens(t)
	h := NewWebSocketHandler(websocket.NewHub(), tokens, testAllowedOrigins)

	token, err := tokens.Issue(&domain.User{ID: 42, Role: domain.RoleUser})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Auth passes; gorilla rejects the plain GET
	err = h.HandleWS(c)
	assert.Error(t, err)
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}

func TestWebSocketHandler_DeliversEvents(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	tokens := newTestTokens(t)
	h := NewWebSocketHandler(hub, tokens, testAllowedOrigins)
	e.GET("/ws", h.HandleWS)

	server := httptest.NewServer(e)
	defer server.Close()

	token, err := tokens.Issue(&domain.User{ID: 7, Role: domain.RoleUser})
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.UserClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(websocket.Deleted(websocket.EntityTypeTask, 3))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(message), `"type":"task.deleted"`)
	assert.Contains(t, string(message), `"entity":"task"`)
	assert.Contains(t, string(message), `"id":3`)
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), newTestTokens(t), testAllowedOrigins)

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"allowed origin", "http://localhost:5173", true},
		{"allowed origin https", "https://salt.example", true},
		{"disallowed origin", "https://evil.com", false},
		{"empty origin (same-origin)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			result := h.checkOrigin(req)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestWebSocketHandler_ConnectionEndsWithToken(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	tokens, err := auth.NewTokenService(auth.Options{Secret: []byte("handler-test-secret"), TTL: 2 * time.Second})
	require.NoError(t, err)
	e.GET("/ws", NewWebSocketHandler(hub, tokens, testAllowedOrigins).HandleWS)

	server := httptest.NewServer(e)
	defer server.Close()

	token, err := tokens.Issue(&domain.User{ID: 8, Role: domain.RoleUser})
	require.NoError(t, err)

	conn, _, err := ws.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	var closeErr *ws.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, ws.ClosePolicyViolation, closeErr.Code)
	assert.Eventually(t, func() bool { return hub.UserClientCount(8) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketHandler_CheckOrigin_Wildcard(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), newTestTokens(t), []string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	assert.True(t, h.checkOrigin(req))
}
