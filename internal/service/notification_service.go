package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admission/internal/config"
	"github.com/spec-kit/ticket-admission/internal/events"
)

// NotificationService implements Notifier by publishing administrator alerts
// and delivering them by email stub and webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *req.Client
}

// webhookMessage is the JSON body posted to NOTIFY_WEBHOOK_URL.
type webhookMessage struct {
	EventID    string    `json:"event_id"`
	Event      string    `json:"event"`
	Title      string    `json:"title"`
	Username   string    `json:"username"`
	AdminEmail string    `json:"admin_email,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     req.C().SetTimeout(cfg.WebhookTimeout()),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAdministratorAlert, n.handleAdministratorAlert)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
}

// SendToAdministrator raises an administrator alert for a ticket title and
// the username it was assigned to.
func (n *NotificationService) SendToAdministrator(ctx context.Context, title, username string) error {
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAdministratorAlert,
		Timestamp: time.Now().UTC(),
		Payload:   events.AdministratorAlertPayload{Title: title, Username: username},
	}
	if n.dispatcher == nil {
		return n.handleAdministratorAlert(ctx, event)
	}
	return n.dispatcher.Publish(ctx, event)
}

func (n *NotificationService) handleAdministratorAlert(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AdministratorAlertPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("AdministratorAlert", zap.String("title", payload.Title), zap.String("username", payload.Username))
	n.sendEmailNotificationStub(event, payload)
	return n.sendWebhook(ctx, event, payload)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketAssigned(_ context.Context, event events.Event) error {
	n.logger.Info("TicketAssigned", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(event events.Event, payload events.AdministratorAlertPayload) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(n.cfg.AdminEmail) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", n.cfg.AdminEmail),
		zap.String("subject", payload.Title),
		zap.String("event_id", event.ID))
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event, payload events.AdministratorAlertPayload) error {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return nil
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(webhookMessage{
			EventID:    event.ID,
			Event:      string(event.Type),
			Title:      payload.Title,
			Username:   payload.Username,
			AdminEmail: n.cfg.AdminEmail,
			SentAt:     event.Timestamp,
		}).
		Post(n.cfg.WebhookURL)
	if err != nil {
		return fmt.Errorf("post administrator webhook: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("administrator webhook returned status %d", resp.StatusCode)
	}
	n.logger.Debug("administrator webhook delivered", zap.String("event_id", event.ID), zap.Int("status", resp.StatusCode))
	return nil
}
