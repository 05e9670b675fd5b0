package services

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Send buffer size
	sendBufferSize = 64
)

// AuditClient is one WebSocket viewer of the audit stream.
type AuditClient struct {
	hub        *AuditHub
	conn       *websocket.Conn
	send       chan []byte
	username   string
	remoteAddr string
}

// NewAuditClient creates a client for the given connection.
func NewAuditClient(hub *AuditHub, conn *websocket.Conn, username, remoteAddr string) *AuditClient {
	return &AuditClient{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		username:   username,
		remoteAddr: remoteAddr,
	}
}

// ReadPump drains the connection so pings/pongs work; inbound payloads are
// ignored because the audit stream is one-way.
func (c *AuditClient) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ Audit WebSocket error: %v", err)
			}
			break
		}
	}
}

// WritePump forwards hub events to the connection and keeps it alive with
// pings.
func (c *AuditClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
