package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := &Client{userID: "u1", hub: hub, send: make(chan Event, 1)}
	second := &Client{userID: "u2", hub: hub, send: make(chan Event, 1)}
	hub.register <- first
	hub.register <- second

	hub.Publish(Event{Kind: EventPostCreated, EntityID: "p1", Title: "Hello"})

	for _, client := range []*Client{first, second} {
		select {
		case event := <-client.send:
			assert.Equal(t, EventPostCreated, event.Kind)
			assert.Equal(t, "p1", event.EntityID)
			assert.False(t, event.SentAt.IsZero())
		case <-time.After(time.Second):
			t.Fatalf("client %s did not receive the event", client.userID)
		}
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{userID: "u1", hub: hub, send: make(chan Event, 1)}
	hub.register <- client
	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		assert.False(t, ok, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHubDropsStalledClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// An unbuffered send channel with no reader stalls immediately.
	stalled := &Client{userID: "u1", hub: hub, send: make(chan Event)}
	healthy := &Client{userID: "u2", hub: hub, send: make(chan Event, 2)}
	hub.register <- stalled
	hub.register <- healthy

	hub.Publish(Event{Kind: EventCommentAdded, EntityID: "p1"})
	hub.Publish(Event{Kind: EventLikeToggled, EntityID: "p1"})

	require.Eventually(t, func() bool {
		return len(healthy.send) == 2
	}, time.Second, 10*time.Millisecond)

	// The stalled client's channel is closed instead of blocking the hub.
	_, ok := <-stalled.send
	assert.False(t, ok)
}

func TestPublishOnNilHub(t *testing.T) {
	var hub *Hub
	// Must not panic; the feed is optional wiring.
	hub.Publish(Event{Kind: EventPostCreated})
}
