package domain

import "time"

// DefaultTitleFlags are the title markers that make a ticket a candidate for
// escalation when no other set is configured.
var DefaultTitleFlags = []string{"Crash"}

// Ticket is the aggregate for support requests. ID is zero until the ticket
// store assigns one.
type Ticket struct {
	ID             int64
	Title          string
	Description    string
	AssignedUser   User
	Priority       TicketPriority
	CreatedAt      time.Time
	PriceDollars   float64
	AccountManager *User
	UpdatedAt      time.Time
}

// TicketHistoryChange names what a history entry records.
type TicketHistoryChange string

const (
	TicketHistoryCreated  TicketHistoryChange = "created"
	TicketHistoryAssigned TicketHistoryChange = "assigned"
)

// TicketHistory is one audit entry for a ticket. OldValue is empty for
// creation entries.
type TicketHistory struct {
	ID         int64
	TicketID   int64
	EventID    string
	ChangeType TicketHistoryChange
	OldValue   string
	NewValue   string
	CreatedAt  time.Time
}
