package services

import (
	"log"
	"sync"

	"github.com/nats-io/nats.go"
)

// AuditHub fans audit events out to WebSocket clients. It subscribes to the
// full audit.auth.> subject space and broadcasts every event verbatim.
type AuditHub struct {
	natsConn *nats.Conn
	natsSub  *nats.Subscription

	clients   map[*AuditClient]bool
	clientsMu sync.RWMutex

	register   chan *AuditClient
	unregister chan *AuditClient
	broadcast  chan []byte

	eventsReceived uint64
	eventsDropped  uint64
	countersMu     sync.Mutex
}

// NewAuditHub creates a hub over the given NATS connection.
func NewAuditHub(natsConn *nats.Conn) *AuditHub {
	return &AuditHub{
		natsConn:   natsConn,
		clients:    make(map[*AuditClient]bool),
		register:   make(chan *AuditClient),
		unregister: make(chan *AuditClient),
		broadcast:  make(chan []byte, 64),
	}
}

// Run subscribes to the audit subjects and serves the hub loop. It returns
// when the subscription cannot be established.
func (h *AuditHub) Run() {
	sub, err := h.natsConn.Subscribe(AuditSubjectPrefix+">", func(msg *nats.Msg) {
		h.countersMu.Lock()
		h.eventsReceived++
		h.countersMu.Unlock()

		select {
		case h.broadcast <- msg.Data:
		default:
			// Hub loop is backed up; dropping is preferable to blocking NATS.
			h.countersMu.Lock()
			h.eventsDropped++
			h.countersMu.Unlock()
		}
	})
	if err != nil {
		log.Printf("⚠️ Audit hub subscription failed: %v", err)
		return
	}
	h.natsSub = sub
	log.Println("📜 Audit hub subscribed to auth events")

	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			log.Printf("📜 Audit viewer connected (%s), total %d", client.remoteAddr, h.clientCount())

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()
			log.Printf("📜 Audit viewer disconnected (%s), total %d", client.remoteAddr, h.clientCount())

		case data := <-h.broadcast:
			h.clientsMu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer; it will be reaped by its write pump.
					h.countersMu.Lock()
					h.eventsDropped++
					h.countersMu.Unlock()
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// Register adds a WebSocket client to the hub.
func (h *AuditHub) Register(client *AuditClient) {
	h.register <- client
}

func (h *AuditHub) clientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// AuditHubStats is a snapshot of hub activity.
type AuditHubStats struct {
	Clients        int    `json:"clients"`
	EventsReceived uint64 `json:"eventsReceived"`
	EventsDropped  uint64 `json:"eventsDropped"`
}

// Stats returns current hub counters.
func (h *AuditHub) Stats() AuditHubStats {
	h.countersMu.Lock()
	defer h.countersMu.Unlock()
	return AuditHubStats{
		Clients:        h.clientCount(),
		EventsReceived: h.eventsReceived,
		EventsDropped:  h.eventsDropped,
	}
}
