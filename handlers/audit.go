package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sihmcb/backend/natsserver"
	"github.com/sihmcb/backend/services"
)

var (
	auditHub    *services.AuditHub
	auditServer *natsserver.EmbeddedNATS
	upgrader    = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true // CORS policy is enforced on the API routes
		},
	}
)

// SetAuditHub sets the audit hub for the WebSocket handlers.
func SetAuditHub(hub *services.AuditHub) {
	auditHub = hub
}

// SetAuditServer sets the embedded NATS server whose counters are
// reported alongside the hub stats.
func SetAuditServer(srv *natsserver.EmbeddedNATS) {
	auditServer = srv
}

// HandleAuditWebSocket handles WebSocket connections streaming auth audit
// events. Callers must already be authenticated as admin.
func HandleAuditWebSocket(c *gin.Context) {
	if auditHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Audit stream not enabled"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}

	username := ""
	if user, ok := CurrentUser(c); ok {
		username = user.Username
	}

	client := services.NewAuditClient(auditHub, conn, username, c.ClientIP())
	auditHub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// GetAuditStats returns audit hub counters.
func GetAuditStats(c *gin.Context) {
	if auditHub == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	stats := auditHub.Stats()
	body := gin.H{
		"enabled":        true,
		"clients":        stats.Clients,
		"eventsReceived": stats.EventsReceived,
		"eventsDropped":  stats.EventsDropped,
	}
	if auditServer != nil {
		body["server"] = auditServer.GetStats()
	}
	c.JSON(http.StatusOK, body)
}
