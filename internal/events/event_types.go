package events

import (
	"time"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketsDeleted      EventType = "tickets_deleted"
	EventResponseSent        EventType = "response_sent"
)

// Event represents a domain event emitted by the ticket workflow.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerName string                `json:"customer_name"`
	Email        string                `json:"email"`
	Subject      string                `json:"subject"`
	Priority     domain.TicketPriority `json:"priority"`
	Sentiment    domain.Sentiment      `json:"sentiment"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
}

// TicketsDeletedPayload payload.
type TicketsDeletedPayload struct {
	TicketIDs []string `json:"ticket_ids"`
	Removed   int      `json:"removed"`
}

// ResponseSentPayload payload.
type ResponseSentPayload struct {
	Email       string `json:"email"`
	BodyPreview string `json:"body_preview"`
}
