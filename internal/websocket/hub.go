package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when sending to a connection that has been closed
var ErrClientClosed = errors.New("client is closed")

// Subscriber is one live connection as the Hub sees it
type Subscriber interface {
	ID() string
	UserID() int32
	// ExpiresAt is when the credentials the connection was opened with lapse.
	// The zero time means no expiry.
	ExpiresAt() time.Time
	Send(data []byte) error
	Close() error
}

// EventPublisher is what services write their change notifications to
type EventPublisher interface {
	Publish(event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Hub fans events out to every authenticated connection. A connection only
// keeps receiving while its token is valid and its user still exists.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	now         func() time.Time
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]Subscriber),
		now:         time.Now,
	}
}

// Register adds a connection. One whose token already lapsed is closed instead.
func (h *Hub) Register(s Subscriber) {
	if h.expired(s) {
		log.Debug().Int32("user_id", s.UserID()).Msg("Refusing expired WebSocket subscriber")
		_ = s.Close()
		return
	}

	h.mu.Lock()
	h.subscribers[s.ID()] = s
	h.mu.Unlock()

	log.Debug().
		Int32("user_id", s.UserID()).
		Str("client_id", s.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a connection; unknown connections are ignored
func (h *Hub) Unregister(s Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[s.ID()]
	delete(h.subscribers, s.ID())
	h.mu.Unlock()

	if ok {
		log.Debug().
			Int32("user_id", s.UserID()).
			Str("client_id", s.ID()).
			Msg("WebSocket client unregistered")
	}
}

// Disconnect closes every connection held by the user and returns how many there were
func (h *Hub) Disconnect(userID int32) int {
	dropped := h.evict(func(s Subscriber) bool { return s.UserID() == userID })
	if len(dropped) > 0 {
		log.Info().Int32("user_id", userID).Int("connections", len(dropped)).Msg("Disconnected WebSocket user")
	}
	return len(dropped)
}

// Publish implements EventPublisher
func (h *Hub) Publish(event Event) {
	h.Broadcast(event)
}

// Broadcast sends the event to every live connection. Connections whose token
// has lapsed are closed rather than served, and a user.deleted event closes
// the removed user's connections before anyone is notified.
func (h *Hub) Broadcast(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to serialize event")
		return
	}

	if userID, ok := deletedUserID(event); ok {
		h.Disconnect(userID)
	}

	if expired := h.evict(h.expired); len(expired) > 0 {
		log.Debug().Int("connections", len(expired)).Msg("Closed WebSocket clients with expired tokens")
	}

	h.mu.RLock()
	recipients := make([]Subscriber, 0, len(h.subscribers))
	for _, s := range h.subscribers {
		recipients = append(recipients, s)
	}
	h.mu.RUnlock()

	// Send never blocks: a full buffer fails fast
	for _, s := range recipients {
		if err := s.Send(data); err != nil {
			log.Warn().
				Err(err).
				Int32("user_id", s.UserID()).
				Str("client_id", s.ID()).
				Msg("Failed to send to client")
		}
	}

	log.Debug().
		Str("event_type", event.Type).
		Int("client_count", len(recipients)).
		Msg("Broadcast event")
}

// ClientCount returns the number of registered connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// UserClientCount returns how many connections the given user holds
func (h *Hub) UserClientCount(userID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, s := range h.subscribers {
		if s.UserID() == userID {
			n++
		}
	}
	return n
}

func (h *Hub) expired(s Subscriber) bool {
	expiresAt := s.ExpiresAt()
	return !expiresAt.IsZero() && !h.now().Before(expiresAt)
}

// evict removes the matching connections and closes them outside the lock
func (h *Hub) evict(match func(Subscriber) bool) []Subscriber {
	h.mu.Lock()
	var dropped []Subscriber
	for id, s := range h.subscribers {
		if match(s) {
			dropped = append(dropped, s)
			delete(h.subscribers, id)
		}
	}
	h.mu.Unlock()

	for _, s := range dropped {
		_ = s.Close()
	}
	return dropped
}

func deletedUserID(event Event) (int32, bool) {
	if event.Entity != EntityTypeUser || event.Type != string(EntityTypeUser)+"."+string(EventTypeDeleted) {
		return 0, false
	}
	switch p := event.Payload.(type) {
	case DeletedPayload:
		return p.ID, true
	case *DeletedPayload:
		if p != nil {
			return p.ID, true
		}
	}
	return 0, false
}
