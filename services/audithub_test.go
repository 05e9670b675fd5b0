package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sihmcb/backend/natsserver"
)

func TestAuditHub_BroadcastsToClients(t *testing.T) {
	embedded, err := natsserver.New(natsserver.Config{Port: 42225})
	require.NoError(t, err)
	defer embedded.Shutdown()

	hub := NewAuditHub(embedded.Conn())
	go hub.Run()

	// Register blocks until the hub loop is serving, which also means the
	// NATS subscription is in place.
	viewer := NewAuditClient(hub, nil, "admin", "test")
	hub.Register(viewer)

	publisher := NewAuditPublisher(embedded)
	publisher.Publish(AuthEvent{Type: "login", Username: "alice", RemoteAddr: "127.0.0.1"})

	select {
	case data := <-viewer.send:
		var event AuthEvent
		require.NoError(t, json.Unmarshal(data, &event))
		require.Equal(t, "login", event.Type)
		require.Equal(t, "alice", event.Username)
	case <-time.After(5 * time.Second):
		t.Fatal("audit event did not reach the viewer")
	}

	require.Eventually(t, func() bool {
		return hub.Stats().EventsReceived >= 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestAuditHub_DropsOnSlowConsumer(t *testing.T) {
	embedded, err := natsserver.New(natsserver.Config{Port: 42226})
	require.NoError(t, err)
	defer embedded.Shutdown()

	hub := NewAuditHub(embedded.Conn())
	go hub.Run()

	viewer := NewAuditClient(hub, nil, "admin", "test")
	hub.Register(viewer)

	// A consumer whose send buffer is already full never gets more events.
	stalled := NewAuditClient(hub, nil, "admin", "stalled")
	for i := 0; i < sendBufferSize; i++ {
		stalled.send <- []byte("{}")
	}
	hub.Register(stalled)

	publisher := NewAuditPublisher(embedded)
	publisher.Publish(AuthEvent{Type: "logout", Username: "bob", RemoteAddr: "127.0.0.1"})

	select {
	case data := <-viewer.send:
		var event AuthEvent
		require.NoError(t, json.Unmarshal(data, &event))
		require.Equal(t, "bob", event.Username)
	case <-time.After(5 * time.Second):
		t.Fatal("healthy viewer did not receive the event")
	}

	require.Eventually(t, func() bool {
		return hub.Stats().EventsDropped >= 1
	}, 5*time.Second, 10*time.Millisecond)
	require.Len(t, stalled.send, sendBufferSize)
}
