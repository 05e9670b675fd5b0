// Package services provides the audit event bus for the backend.
package services

import (
	"encoding/json"
	"log"
	"time"
)

// AuthEvent is one auth-flow occurrence published on the audit bus.
// Password material never appears here.
type AuthEvent struct {
	Type       string    `json:"type"` // login, login_failed, register, logout
	Username   string    `json:"username,omitempty"`
	RemoteAddr string    `json:"remoteAddr,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// AuditSubjectPrefix is the NATS subject root for auth events; the event
// type is appended (audit.auth.login, audit.auth.register, ...).
const AuditSubjectPrefix = "audit.auth."

// Bus is the publishing side of the audit transport. Both *nats.Conn and
// the embedded server wrapper satisfy it; the wrapper keeps publish
// counters, so it is what the server wires in.
type Bus interface {
	Publish(subject string, data []byte) error
}

// AuditPublisher publishes auth events to the audit bus. A nil publisher
// is valid and drops everything, so auth flows never fail because auditing
// is down.
type AuditPublisher struct {
	bus Bus
}

// NewAuditPublisher wraps an audit bus for publishing auth events.
func NewAuditPublisher(bus Bus) *AuditPublisher {
	return &AuditPublisher{bus: bus}
}

// Publish sends an event to the audit bus. Failures are logged and ignored.
func (p *AuditPublisher) Publish(event AuthEvent) {
	if p == nil || p.bus == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Failed to encode audit event: %v", err)
		return
	}
	if err := p.bus.Publish(AuditSubjectPrefix+event.Type, data); err != nil {
		log.Printf("⚠️ Failed to publish audit event: %v", err)
	}
}
