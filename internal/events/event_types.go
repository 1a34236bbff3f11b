package events

import (
	"time"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionChanged EventType = "session.changed"
	EventLoginFailed    EventType = "login.failed"
)

// Event represents an auth lifecycle event emitted by the session manager.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionChangedPayload describes a transition of the auth state machine.
type SessionChangedPayload struct {
	From      domain.AuthStatus `json:"from"`
	To        domain.AuthStatus `json:"to"`
	SessionID string            `json:"session_id,omitempty"`
	Role      domain.Role       `json:"role,omitempty"`
	Reason    string            `json:"reason"`
}

// LoginFailedPayload describes a rejected login attempt.
type LoginFailedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Code  string      `json:"code"`
}
