package handler

import (
	"net/http"
	"strings"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/websocket"
)

// WebSocketHandler upgrades authenticated requests at /ws into event streams
type WebSocketHandler struct {
	hub      *websocket.Hub
	verifier middleware.TokenVerifier
	origins  originPolicy
	upgrader ws.Upgrader
}

// originPolicy mirrors CORS_ORIGINS: exact origins, or "*" for any
type originPolicy struct {
	any     bool
	allowed map[string]struct{}
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			p.any = true
		}
		p.allowed[origin] = struct{}{}
	}
	return p
}

func (p originPolicy) permits(origin string) bool {
	if origin == "" || p.any {
		return true
	}
	_, ok := p.allowed[origin]
	return ok
}

// NewWebSocketHandler creates a WebSocketHandler accepting the given browser origins
func NewWebSocketHandler(hub *websocket.Hub, verifier middleware.TokenVerifier, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:      hub,
		verifier: verifier,
		origins:  newOriginPolicy(allowedOrigins),
	}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin lets non-browser clients (no Origin header) through
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if h.origins.permits(origin) {
		return true
	}
	log.Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws
// @Summary Subscribe to resource events
// @Tags events
// @Param token query string true "Bearer token"
// @Success 101
// @Failure 401 {object} ProblemDetails
// @Router /ws [get]
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	// Browsers cannot set headers on the upgrade request, so the token rides in the query
	token := c.QueryParam("token")
	if token == "" {
		log.Debug().Msg("WebSocket connection rejected: missing token")
		return NewUnauthorizedError(c, "Token não fornecido")
	}

	identity, err := h.verifier.Verify(c.Request().Context(), token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
		return NewUnauthorizedError(c, "Token inválido")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Int32("user_id", identity.UserID).Msg("WebSocket upgrade failed")
		return err
	}

	// The connection is bound to this token: it is closed when the token
	// expires or the user is deleted.
	client := websocket.NewClient(conn, h.hub, identity.UserID, identity.ExpiresAt)
	client.Serve()

	log.Info().
		Int32("user_id", identity.UserID).
		Str("client_id", client.ID()).
		Time("expires_at", identity.ExpiresAt).
		Msg("WebSocket client connected")
	return nil
}
