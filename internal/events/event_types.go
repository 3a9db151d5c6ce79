package events

import (
	"time"

	"github.com/spec-kit/ticket-admission/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketAssigned     EventType = "ticket_assigned"
	EventAdministratorAlert EventType = "administrator_alert"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title          string                `json:"title"`
	AssignedTo     string                `json:"assigned_to"`
	Priority       domain.TicketPriority `json:"priority"`
	Escalated      bool                  `json:"escalated"`
	PriceDollars   float64               `json:"price_dollars"`
	AccountManager string                `json:"account_manager,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldAssignee string `json:"old_assignee"`
	NewAssignee string `json:"new_assignee"`
}

// AdministratorAlertPayload asks for an administrator to be told about a
// high priority ticket.
type AdministratorAlertPayload struct {
	Title    string `json:"title"`
	Username string `json:"username"`
}
