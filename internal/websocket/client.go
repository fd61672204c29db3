package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

// closeReasonExpired is sent with the close frame when the token lapses
const closeReasonExpired = "token expirado"

// Client is one authenticated /ws connection. It lives until the peer goes
// away, the hub drops it, or the token it was opened with expires.
type Client struct {
	id        string
	userID    int32
	expiresAt time.Time
	conn      *websocket.Conn
	hub       *Hub

	send chan []byte
	done chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection for the given user. expiresAt is the
// token's expiry; the zero time keeps the connection open indefinitely.
func NewClient(conn *websocket.Conn, hub *Hub, userID int32, expiresAt time.Time) *Client {
	return &Client{
		id:        uuid.NewString(),
		userID:    userID,
		expiresAt: expiresAt,
		conn:      conn,
		hub:       hub,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
}

func (c *Client) ID() string           { return c.id }
func (c *Client) UserID() int32        { return c.userID }
func (c *Client) ExpiresAt() time.Time { return c.expiresAt }

// Serve registers the client with its hub and starts the read and write loops
func (c *Client) Serve() {
	c.hub.Register(c)
	go c.writeLoop()
	go c.readLoop()
}

// Send queues a message without blocking; a slow peer gets ErrClientClosed
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close ends the connection with a normal close frame. Safe to call repeatedly.
func (c *Client) Close() error {
	return c.closeWith(websocket.CloseNormalClosure, "")
}

// IsClosed reports whether the connection has been closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) closeWith(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)

		// WriteControl may run concurrently with the write loop
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason),
			time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	return err
}

// readLoop only services control frames; the channel is server-to-client
func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Int32("user_id", c.userID).Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	var expiry <-chan time.Time
	if !c.expiresAt.IsZero() {
		timer := time.NewTimer(time.Until(c.expiresAt))
		defer timer.Stop()
		expiry = timer.C
	}

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Int32("user_id", c.userID).Msg("WebSocket write error")
				_ = c.Close()
				return
			}

		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}

		case <-expiry:
			log.Debug().Str("client_id", c.id).Int32("user_id", c.userID).Msg("WebSocket token expired")
			c.hub.Unregister(c)
			_ = c.closeWith(websocket.ClosePolicyViolation, closeReasonExpired)
			return

		case <-c.done:
			return
		}
	}
}
