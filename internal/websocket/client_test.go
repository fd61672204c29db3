package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveClients upgrades every request into a Client for userID expiring at expiresAt
func serveClients(t *testing.T, hub *Hub, userID int32, expiresAt time.Time) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn, hub, userID, expiresAt).Serve()
	}))
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.UserClientCount(userID) == 1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func TestClient_ClosesWhenTokenExpires(t *testing.T) {
	hub := NewHub()
	conn := serveClients(t, hub, 4, time.Now().Add(time.Second))

	hub.Publish(Created(EntityTypeProject, map[string]interface{}{"id": float64(1)}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(message), `"type":"project.created"`)

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, closeReasonExpired, closeErr.Text)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestClient_ClosedWhenUserDeleted(t *testing.T) {
	hub := NewHub()
	conn := serveClients(t, hub, 9, time.Now().Add(time.Hour))

	hub.Publish(Deleted(EntityTypeUser, 9))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
	assert.Equal(t, 0, hub.ClientCount())
}
