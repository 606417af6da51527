package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignedUp  EventType = "user_signed_up"
	EventUserSignedIn  EventType = "user_signed_in"
	EventUserSignedOut EventType = "user_signed_out"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SignedUpPayload payload.
type SignedUpPayload struct {
	Email   string `json:"email"`
	TokenID string `json:"token_id"`
}

// SignedInPayload payload.
type SignedInPayload struct {
	Email       string `json:"email"`
	TokenID     string `json:"token_id"`
	SignInCount int    `json:"sign_in_count"`
	RemoteIP    string `json:"remote_ip,omitempty"`
}

// SignedOutPayload payload.
type SignedOutPayload struct {
	TokenID string `json:"token_id"`
}
