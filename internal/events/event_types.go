package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated  EventType = "lead_created"
	EventLeadsSeeded  EventType = "leads_seeded"
	EventLeadsCleared EventType = "leads_cleared"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	LeadID    string      `json:"lead_id,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	Email string `json:"email"`
	Stage string `json:"stage"`
}

// LeadsSeededPayload payload.
type LeadsSeededPayload struct {
	Count int `json:"count"`
}
