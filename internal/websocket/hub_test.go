package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a Subscriber that records what it was sent
type mockClient struct {
	id        string
	userID    int32
	expiresAt time.Time

	mu       sync.Mutex
	messages [][]byte
	closed   bool
}

func newMockClient(id string, userID int32) *mockClient {
	return &mockClient{id: id, userID: userID}
}

func (m *mockClient) ID() string           { return m.id }
func (m *mockClient) UserID() int32        { return m.userID }
func (m *mockClient) ExpiresAt() time.Time { return m.expiresAt }

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1", 1)
	client2 := newMockClient("client-2", 1)
	client3 := newMockClient("client-3", 2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 3, hub.ClientCount())
	assert.Equal(t, 2, hub.UserClientCount(1))
	assert.Equal(t, 1, hub.UserClientCount(2))

	hub.Unregister(client1)
	assert.Equal(t, 2, hub.ClientCount())
	assert.Equal(t, 1, hub.UserClientCount(1))

	// Unregistering twice is a no-op
	hub.Unregister(client1)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast_ReachesEveryClient(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1", 1)
	client2 := newMockClient("client-2", 2)
	hub.Register(client1)
	hub.Register(client2)

	var publisher EventPublisher = hub
	publisher.Publish(Created(EntityTypeTask, map[string]interface{}{"id": float64(7)}))

	for _, c := range []*mockClient{client1, client2} {
		messages := c.GetMessages()
		require.Len(t, messages, 1)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(messages[0], &decoded))
		assert.Equal(t, "task.created", decoded["type"])
		assert.Equal(t, "task", decoded["entity"])
	}
}

func TestHub_Broadcast_NoClients(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		hub.Broadcast(Deleted(EntityTypeProject, 1))
	})
}

func TestHub_Broadcast_SkipsClosedClient(t *testing.T) {
	hub := NewHub()

	open := newMockClient("open", 1)
	closed := newMockClient("closed", 2)
	require.NoError(t, closed.Close())

	hub.Register(open)
	hub.Register(closed)

	hub.Broadcast(Updated(EntityTypeProduct, map[string]interface{}{"id": float64(3)}))

	assert.Len(t, open.GetMessages(), 1)
	assert.Empty(t, closed.GetMessages())
}

func TestHub_Broadcast_UnserializablePayload(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1", 1)
	hub.Register(client)

	hub.Broadcast(Created(EntityTypeCategory, make(chan int)))

	assert.Empty(t, client.GetMessages())
}

func TestHub_ExpiredTokensStopReceiving(t *testing.T) {
	hub := NewHub()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return now }

	valid := newMockClient("valid", 1)
	valid.expiresAt = now.Add(time.Hour)
	lapsing := newMockClient("lapsing", 2)
	lapsing.expiresAt = now.Add(time.Minute)
	unbounded := newMockClient("unbounded", 3)

	hub.Register(valid)
	hub.Register(lapsing)
	hub.Register(unbounded)
	require.Equal(t, 3, hub.ClientCount())

	hub.Broadcast(Created(EntityTypeTask, map[string]interface{}{"id": float64(1)}))
	assert.Len(t, lapsing.GetMessages(), 1)

	now = now.Add(2 * time.Minute)
	hub.Broadcast(Created(EntityTypeTask, map[string]interface{}{"id": float64(2)}))

	assert.Len(t, valid.GetMessages(), 2)
	assert.Len(t, unbounded.GetMessages(), 2)
	assert.Len(t, lapsing.GetMessages(), 1, "no events after expiry")
	assert.True(t, lapsing.isClosed())
	assert.Equal(t, 0, hub.UserClientCount(2))
	assert.Equal(t, 2, hub.ClientCount())
}

func TestHub_Register_RefusesExpiredToken(t *testing.T) {
	hub := NewHub()

	stale := newMockClient("stale", 1)
	stale.expiresAt = time.Now().Add(-time.Second)
	hub.Register(stale)

	assert.Equal(t, 0, hub.ClientCount())
	assert.True(t, stale.isClosed())
}

func TestHub_UserDeletedDropsTheirConnections(t *testing.T) {
	hub := NewHub()

	removedPhone := newMockClient("removed-phone", 5)
	removedLaptop := newMockClient("removed-laptop", 5)
	admin := newMockClient("admin", 1)
	hub.Register(removedPhone)
	hub.Register(removedLaptop)
	hub.Register(admin)

	hub.Publish(Deleted(EntityTypeUser, 5))

	assert.Equal(t, 0, hub.UserClientCount(5))
	assert.Equal(t, 1, hub.ClientCount())
	for _, c := range []*mockClient{removedPhone, removedLaptop} {
		assert.True(t, c.isClosed())
		assert.Empty(t, c.GetMessages())
	}

	require.Len(t, admin.GetMessages(), 1)
	assert.Contains(t, string(admin.GetMessages()[0]), `"type":"user.deleted"`)

	// deleting some other entity with the same id leaves the user alone
	survivor := newMockClient("survivor", 6)
	hub.Register(survivor)
	hub.Publish(Deleted(EntityTypeTask, 6))
	assert.False(t, survivor.isClosed())
	assert.Equal(t, 1, hub.UserClientCount(6))
}

func TestHub_Disconnect(t *testing.T) {
	hub := NewHub()
	hub.Register(newMockClient("a", 1))
	hub.Register(newMockClient("b", 1))
	hub.Register(newMockClient("c", 2))

	assert.Equal(t, 2, hub.Disconnect(1))
	assert.Equal(t, 0, hub.Disconnect(1))
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newMockClient(fmt.Sprintf("client-%d", i), int32(i%3))
			hub.Register(c)
			hub.Broadcast(Created(EntityTypeCommunication, map[string]interface{}{"id": float64(i)}))
			hub.Unregister(c)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
}
