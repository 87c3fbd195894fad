// Package feed pushes live activity notifications to signed-in members over
// a websocket, so new posts and comments show up without a reload.
package feed

import (
	log "barchive/cloudlog"
	"net/http"
	"time"
)

// The number of seconds between presence broadcasts to clients.
const presenceInterval = 30

// Hub maintains the set of connected clients and fans events out to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Events queued for broadcast.
	broadcast chan Event

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client
}

// NewHub returns a hub ready for Run.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run listens on all channels and dispatches. Call it in its own goroutine;
// it only returns when the process shuts down.
func (h *Hub) Run() {
	ticker := time.NewTicker(presenceInterval * time.Second)
	defer ticker.Stop()
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.removeClient(client)
			}
		case event := <-h.broadcast:
			for client := range h.clients {
				h.sendEvent(client, event)
			}
		case <-ticker.C:
			event := Event{
				Kind:   EventPresence,
				Online: len(h.clients),
				SentAt: time.Now(),
			}
			for client := range h.clients {
				h.sendEvent(client, event)
			}
		}
	}
}

// Publish queues an event for broadcast without blocking the caller. When
// the queue is full the event is dropped; the feed is a convenience, not a
// delivery guarantee.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	if event.SentAt.IsZero() {
		event.SentAt = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("feed queue full, dropping %s event", event.Kind)
	}
}

// sendEvent first checks that the client can still take messages.
func (h *Hub) sendEvent(client *Client, event Event) {
	select {
	case client.send <- event:
	default:
		h.removeClient(client)
	}
}

func (h *Hub) removeClient(client *Client) {
	delete(h.clients, client)
	close(client.send)
}

// ServeWs upgrades the request and registers the connection with the hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("feed upgrade error: %v", err)
		return
	}
	client := newClient(userID, conn, h)
	h.register <- client
	client.start()
}
