package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admission/internal/domain"
	"github.com/spec-kit/ticket-admission/internal/events"
	"github.com/spec-kit/ticket-admission/internal/repository"
	apperrors "github.com/spec-kit/ticket-admission/pkg/util/errorutil"
)

const (
	// Tickets created longer ago than this are stale on admission.
	staleAfter = time.Hour

	highPriorityPriceDollars = 100.0
	standardPriceDollars     = 50.0
)

// Notifier delivers out-of-band messages to an administrator.
type Notifier interface {
	SendToAdministrator(ctx context.Context, title, username string) error
}

type noopNotifier struct{}

func (noopNotifier) SendToAdministrator(context.Context, string, string) error { return nil }

// TicketService admits new tickets.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	notifier   Notifier
	clock      Clock
	dispatcher events.Dispatcher
	titleFlags []string
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service. Notifier,
// Clock, Dispatcher, TitleFlags and Logger are optional.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Notifier   Notifier
	Clock      Clock
	Dispatcher events.Dispatcher
	TitleFlags []string
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title            string
	Priority         domain.TicketPriority
	AssignedTo       string
	Description      string
	CreatedAt        time.Time
	IsPayingCustomer bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		notifier:   deps.Notifier,
		clock:      deps.Clock,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	for _, flag := range deps.TitleFlags {
		if flag != "" {
			s.titleFlags = append(s.titleFlags, flag)
		}
	}
	if len(s.titleFlags) == 0 {
		s.titleFlags = domain.DefaultTitleFlags
	}
	return s
}

// CreateTicket validates input, applies escalation and pricing rules and
// stores the ticket, returning the id the store assigned.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (int64, error) {
	if isBlank(input.Title) || isBlank(input.Description) {
		return 0, apperrors.NewInvalidTicket("title or description were empty")
	}
	if !input.Priority.Valid() {
		return 0, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if isBlank(input.AssignedTo) {
		return 0, apperrors.NewUnknownUser(input.AssignedTo)
	}

	user, err := resolveUser(ctx, s.users, input.AssignedTo)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	priority := input.Priority
	escalated := false
	if s.shouldEscalate(input.Title, input.CreatedAt, now) && priority.Below(domain.TicketPriorityHigh) {
		priority = priority.Escalate()
		escalated = true
		s.logger.Debug("ticket escalated",
			zap.String("title", input.Title),
			zap.String("from", string(input.Priority)),
			zap.String("to", string(priority)))
	}

	if priority == domain.TicketPriorityHigh {
		if err := s.notifier.SendToAdministrator(ctx, input.Title, input.AssignedTo); err != nil {
			s.logger.Warn("administrator notification failed",
				zap.String("title", input.Title),
				zap.String("assigned_to", input.AssignedTo),
				zap.Error(err))
		}
	}

	accountManager, hasAccountManager, err := s.users.GetAccountManager(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError(fmt.Errorf("lookup account manager: %w", err))
	}

	ticket := &domain.Ticket{
		Title:        input.Title,
		Description:  input.Description,
		AssignedUser: user,
		Priority:     priority,
		CreatedAt:    input.CreatedAt,
	}
	if input.IsPayingCustomer && hasAccountManager {
		ticket.PriceDollars = priceFor(priority)
		ticket.AccountManager = &accountManager
	}

	id, err := s.tickets.Create(ctx, ticket)
	if err != nil {
		return 0, apperrors.NewInternalError(fmt.Errorf("create ticket: %w", err))
	}
	s.logger.Info("ticket created",
		zap.Int64("ticket_id", id),
		zap.String("priority", string(priority)),
		zap.Float64("price_dollars", ticket.PriceDollars))

	payload := events.TicketCreatedPayload{
		Title:        ticket.Title,
		AssignedTo:   user.Username,
		Priority:     priority,
		Escalated:    escalated,
		PriceDollars: ticket.PriceDollars,
	}
	if ticket.AccountManager != nil {
		payload.AccountManager = ticket.AccountManager.Username
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventTicketCreated,
		TicketID:  id,
		Timestamp: now,
		Payload:   payload,
	})
	return id, nil
}

// shouldEscalate reports whether the ticket is stale or carries a title flag.
func (s *TicketService) shouldEscalate(title string, createdAt, now time.Time) bool {
	if createdAt.Before(now.Add(-staleAfter)) {
		return true
	}
	for _, flag := range s.titleFlags {
		if strings.Contains(title, flag) {
			return true
		}
	}
	return false
}

func priceFor(priority domain.TicketPriority) float64 {
	if priority == domain.TicketPriorityHigh {
		return highPriorityPriceDollars
	}
	return standardPriceDollars
}

func resolveUser(ctx context.Context, users repository.UserRepository, username string) (domain.User, error) {
	user, found, err := users.GetByUsername(ctx, username)
	if err != nil {
		return domain.User{}, apperrors.NewInternalError(fmt.Errorf("lookup user: %w", err))
	}
	if !found {
		return domain.User{}, apperrors.NewUnknownUser(username)
	}
	return user, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
