package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admission/internal/service"
)

// StartNotificationWorker subscribes the notification service to ticket
// lifecycle and administrator alert events.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification handlers registered")
	}
}
