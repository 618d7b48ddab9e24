package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

// TestNewHub tests hub creation
func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.Register)
	assert.NotNil(t, hub.Unregister)
	assert.NotNil(t, hub.Broadcast)
	assert.NotNil(t, hub.handlers)
}

// TestRegisterClient tests client registration
func TestRegisterClient(t *testing.T) {
	hub := startHub(t)
	client := NewClient("viewer-1", createTestWebSocketConn(t), hub, zap.NewNop())

	hub.Register <- client
	time.Sleep(10 * time.Millisecond)

	got, ok := hub.GetClient("viewer-1")
	require.True(t, ok)
	assert.Same(t, client, got)
	assert.Equal(t, 1, hub.GetClientCount())
}

// TestRegisterDuplicateClient tests replacing an existing client with the same id
func TestRegisterDuplicateClient(t *testing.T) {
	hub := startHub(t)
	first := NewClient("viewer-1", createTestWebSocketConn(t), hub, zap.NewNop())
	second := NewClient("viewer-1", createTestWebSocketConn(t), hub, zap.NewNop())

	hub.Register <- first
	hub.Register <- second
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 1, hub.GetClientCount())
	got, _ := hub.GetClient("viewer-1")
	assert.Same(t, second, got)

	_, open := <-first.Send
	assert.False(t, open, "replaced client should be closed")
}

// TestUnregisterClient tests client unregistration
func TestUnregisterClient(t *testing.T) {
	hub := startHub(t)
	client := NewClient("viewer-1", createTestWebSocketConn(t), hub, zap.NewNop())

	hub.Register <- client
	hub.Unregister <- client
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, hub.GetClientCount())
	_, ok := hub.GetClient("viewer-1")
	assert.False(t, ok)
}

// TestSendToAll tests broadcasting a refresh to every viewer
func TestSendToAll(t *testing.T) {
	hub := startHub(t)

	clients := make([]*Client, 3)
	for i := range clients {
		clients[i] = NewClient(string(rune('a'+i)), createTestWebSocketConn(t), hub, zap.NewNop())
		hub.Register <- clients[i]
	}
	time.Sleep(10 * time.Millisecond)

	hub.SendToAll(&Message{Type: "rides.changed"})

	for i, client := range clients {
		select {
		case msg := <-client.Send:
			assert.Equal(t, "rides.changed", msg.Type)
			assert.False(t, msg.Timestamp.IsZero())
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client %d did not receive broadcast", i)
		}
	}
}

// TestRegisterHandler tests inbound message dispatch
func TestRegisterHandler(t *testing.T) {
	hub := NewHub()
	client := NewClient("viewer-1", createTestWebSocketConn(t), hub, zap.NewNop())

	var received *Message
	hub.RegisterHandler("ping", func(c *Client, msg *Message) { received = msg })

	hub.HandleMessage(client, &Message{Type: "ping", Data: map[string]interface{}{"n": 1}})
	hub.HandleMessage(client, &Message{Type: "unknown"})

	require.NotNil(t, received)
	assert.Equal(t, 1, received.Data["n"])
}

// TestClientChannelOverflow tests that slow viewers drop messages instead of blocking
func TestClientChannelOverflow(t *testing.T) {
	hub := NewHub()
	client := NewClient("viewer-1", createTestWebSocketConn(t), hub, zap.NewNop())
	client.Send = make(chan *Message, 2)

	for i := 0; i < 5; i++ {
		client.SendMessage(&Message{Type: "rides.changed"})
	}

	assert.Len(t, client.Send, 2)
}

// TestSendAfterClose tests that a closed client does not panic the sender
func TestSendAfterClose(t *testing.T) {
	hub := NewHub()
	client := NewClient("viewer-1", createTestWebSocketConn(t), hub, zap.NewNop())
	client.close()

	assert.NotPanics(t, func() { client.SendMessage(&Message{Type: "rides.changed"}) })
}

// TestStopDisconnectsClients tests shutdown
func TestStopDisconnectsClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	client := NewClient("viewer-1", createTestWebSocketConn(t), hub, zap.NewNop())
	hub.Register <- client

	hub.Stop()
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, hub.GetClientCount())
	assert.NotPanics(t, hub.Stop)
}

// TestConcurrentAccess tests concurrent registration and broadcast
func TestConcurrentAccess(t *testing.T) {
	hub := startHub(t)

	clients := make([]*Client, 20)
	for i := range clients {
		clients[i] = NewClient(string(rune('A'+i)), createTestWebSocketConn(t), hub, zap.NewNop())
	}

	var wg sync.WaitGroup
	for _, client := range clients {
		wg.Add(1)
		go func(client *Client) {
			defer wg.Done()
			hub.Register <- client
			hub.SendToAll(&Message{Type: "rides.changed"})
			_ = hub.GetClientCount()
		}(client)
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 20, hub.GetClientCount())
}
