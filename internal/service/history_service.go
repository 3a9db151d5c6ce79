package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admission/internal/domain"
	"github.com/spec-kit/ticket-admission/internal/events"
	"github.com/spec-kit/ticket-admission/internal/repository"
)

// HistoryService records an audit trail of ticket creation and reassignment
// from lifecycle events. It never touches the ticket rows themselves.
type HistoryService struct {
	dispatcher events.Dispatcher
	history    repository.TicketHistoryRepository
	logger     *zap.Logger
}

// NewHistoryService creates the service.
func NewHistoryService(dispatcher events.Dispatcher, history repository.TicketHistoryRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{dispatcher: dispatcher, history: history, logger: logger}
}

// RegisterHandlers subscribes to ticket lifecycle events.
func (h *HistoryService) RegisterHandlers() {
	if h.dispatcher == nil || h.history == nil {
		return
	}
	h.dispatcher.Subscribe(events.EventTicketCreated, h.handleTicketCreated)
	h.dispatcher.Subscribe(events.EventTicketAssigned, h.handleTicketAssigned)
}

func (h *HistoryService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	return h.record(ctx, &domain.TicketHistory{
		TicketID:   event.TicketID,
		EventID:    event.ID,
		ChangeType: domain.TicketHistoryCreated,
		NewValue:   payload.AssignedTo,
	})
}

func (h *HistoryService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	return h.record(ctx, &domain.TicketHistory{
		TicketID:   event.TicketID,
		EventID:    event.ID,
		ChangeType: domain.TicketHistoryAssigned,
		OldValue:   payload.OldAssignee,
		NewValue:   payload.NewAssignee,
	})
}

func (h *HistoryService) record(ctx context.Context, entry *domain.TicketHistory) error {
	if err := h.history.Create(ctx, entry); err != nil {
		return fmt.Errorf("record %s history for ticket %d: %w", entry.ChangeType, entry.TicketID, err)
	}
	h.logger.Debug("ticket history recorded",
		zap.Int64("ticket_id", entry.TicketID),
		zap.String("change", string(entry.ChangeType)))
	return nil
}
