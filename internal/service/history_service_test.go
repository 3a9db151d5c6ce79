package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/ticket-admission/internal/domain"
	"github.com/spec-kit/ticket-admission/internal/events"
)

type fakeHistory struct {
	entries []domain.TicketHistory
	err     error
}

func (f *fakeHistory) Create(_ context.Context, history *domain.TicketHistory) error {
	if f.err != nil {
		return f.err
	}
	history.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *history)
	return nil
}

func (f *fakeHistory) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	var out []domain.TicketHistory
	for _, e := range f.entries {
		if e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestHistoryServiceRecordsLifecycle(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	history := &fakeHistory{}
	NewHistoryService(dispatcher, history, nil).RegisterHandlers()

	users := newFakeUsers(
		domain.User{Username: "alice"},
		domain.User{Username: "bob"},
	)
	tickets := newFakeTickets()
	admission := NewTicketService(TicketDependencies{
		TicketRepo: tickets,
		UserRepo:   users,
		Notifier:   &fakeNotifier{},
		Clock:      &fixedClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		Dispatcher: dispatcher,
	})
	assignments := NewAssignmentService(AssignmentDependencies{
		TicketRepo: tickets,
		UserRepo:   users,
		Dispatcher: dispatcher,
	})

	id, err := admission.CreateTicket(context.Background(), TicketCreateInput{
		Title:       "Title",
		Priority:    domain.TicketPriorityLow,
		AssignedTo:  "alice",
		Description: "Description",
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateTicket() unexpected error: %v", err)
	}
	if err := assignments.AssignTicket(context.Background(), id, "bob"); err != nil {
		t.Fatalf("AssignTicket() unexpected error: %v", err)
	}

	got, _ := history.ListByTicket(context.Background(), id)
	if len(got) != 2 {
		t.Fatalf("history entries = %d, expected 2", len(got))
	}
	if got[0].ChangeType != domain.TicketHistoryCreated || got[0].NewValue != "alice" || got[0].OldValue != "" {
		t.Fatalf("created entry = %+v", got[0])
	}
	if got[1].ChangeType != domain.TicketHistoryAssigned || got[1].OldValue != "alice" || got[1].NewValue != "bob" {
		t.Fatalf("assigned entry = %+v", got[1])
	}
	if got[0].EventID == "" || got[0].EventID == got[1].EventID {
		t.Fatalf("event ids not distinct: %q %q", got[0].EventID, got[1].EventID)
	}
}

func TestHistoryServiceFailureDoesNotFailAdmission(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewHistoryService(dispatcher, &fakeHistory{err: errors.New("db down")}, nil).RegisterHandlers()

	tickets := newFakeTickets()
	admission := NewTicketService(TicketDependencies{
		TicketRepo: tickets,
		UserRepo:   newFakeUsers(domain.User{Username: "alice"}),
		Notifier:   &fakeNotifier{},
		Clock:      &fixedClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		Dispatcher: dispatcher,
	})

	id, err := admission.CreateTicket(context.Background(), TicketCreateInput{
		Title:       "Title",
		Priority:    domain.TicketPriorityLow,
		AssignedTo:  "alice",
		Description: "Description",
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil || id == 0 {
		t.Fatalf("CreateTicket() = %d, %v; expected stored ticket", id, err)
	}
}

func TestHistoryServiceRejectsForeignPayload(t *testing.T) {
	h := NewHistoryService(nil, &fakeHistory{}, nil)
	err := h.handleTicketAssigned(context.Background(), events.Event{Type: events.EventTicketAssigned, Payload: "nope"})
	if err == nil {
		t.Fatal("expected error for unexpected payload")
	}
}
