package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event is a resource change pushed by the server over /ws
type Event struct {
	// Type is "<entity>.<created|updated|deleted>"
	Type      string          `json:"type"`
	Entity    string          `json:"entity"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Subscribe streams server events to handle until ctx is cancelled or the
// connection drops. Events are not applied to any Store; callers decide.
func (c *Client) Subscribe(ctx context.Context, handle func(Event)) error {
	token := c.Token()
	if token == "" {
		return ErrNotLoggedIn
	}

	wsURL, err := c.websocketURL(token)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("salt: dial events: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// unblocks ReadMessage below
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("salt: read event: %w", err)
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			log.Warn().Err(err).Msg("Skipping malformed event")
			continue
		}
		handle(event)
	}
}

func (c *Client) websocketURL(token string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("salt: invalid base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}
