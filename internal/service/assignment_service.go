package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admission/internal/events"
	"github.com/spec-kit/ticket-admission/internal/repository"
	apperrors "github.com/spec-kit/ticket-admission/pkg/util/errorutil"
)

// AssignmentService moves existing tickets between users.
type AssignmentService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	clock      Clock
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AssignmentDependencies bundles repositories. Clock, Dispatcher and Logger
// are optional.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Clock      Clock
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		clock:      clock,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// AssignTicket reassigns ticket id to username. Only the assigned user
// changes.
func (s *AssignmentService) AssignTicket(ctx context.Context, ticketID int64, username string) error {
	user, err := resolveUser(ctx, s.users, username)
	if err != nil {
		return err
	}

	ticket, found, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("get ticket: %w", err))
	}
	if !found {
		return apperrors.NewTicketNotFound(ticketID)
	}

	oldAssignee := ticket.AssignedUser.Username
	ticket.AssignedUser = user
	if err := s.tickets.Update(ctx, &ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewTicketNotFound(ticketID)
		}
		return apperrors.NewInternalError(fmt.Errorf("update ticket: %w", err))
	}
	s.logger.Info("ticket reassigned",
		zap.Int64("ticket_id", ticketID),
		zap.String("from", oldAssignee),
		zap.String("to", user.Username))

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventTicketAssigned,
		TicketID:  ticketID,
		Timestamp: s.clock.Now(),
		Payload: events.TicketAssignedPayload{
			OldAssignee: oldAssignee,
			NewAssignee: user.Username,
		},
	})
	return nil
}
