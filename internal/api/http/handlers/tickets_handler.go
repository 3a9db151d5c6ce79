package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admission/internal/api/dto"
	"github.com/spec-kit/ticket-admission/internal/auth"
	"github.com/spec-kit/ticket-admission/internal/domain"
	"github.com/spec-kit/ticket-admission/internal/service"
	apperrors "github.com/spec-kit/ticket-admission/pkg/util/errorutil"
)

// TicketsHandler exposes ticket admission and reassignment.
type TicketsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
	logger      *zap.Logger
	now         func() time.Time
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, assignmentService *service.AssignmentService, logger *zap.Logger) *TicketsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketsHandler{
		tickets:     ticketService,
		assignments: assignmentService,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	// Unknown priorities are passed through; the service rejects them after
	// title and description checks.
	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		priority = domain.TicketPriority(req.Priority)
	}
	createdAt := h.now()
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	id, err := h.tickets.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:            req.Title,
		Priority:         priority,
		AssignedTo:       req.AssignedTo,
		Description:      req.Description,
		CreatedAt:        createdAt,
		IsPayingCustomer: req.IsPayingCustomer,
	})
	if err != nil {
		return err
	}
	h.logger.Info("ticket submitted", zap.Int64("ticket_id", id), zap.String("requested_by", principalName(c)))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CreateTicketResponse{ID: id}})
}

// AssignTicket PUT /tickets/:id/assignee.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	// Ids the store never issues, such as 0, still reach the service and
	// come back as TICKET_NOT_FOUND.
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid ticket id", map[string]any{"id": c.Params("id")})
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.assignments.AssignTicket(c.UserContext(), id, req.Username); err != nil {
		return err
	}
	h.logger.Info("reassignment requested",
		zap.Int64("ticket_id", id),
		zap.String("assignee", req.Username),
		zap.String("requested_by", principalName(c)))
	return c.SendStatus(fiber.StatusNoContent)
}

func principalName(c *fiber.Ctx) string {
	if user, ok := auth.UserFromContext(c); ok {
		return user.Username
	}
	return ""
}
