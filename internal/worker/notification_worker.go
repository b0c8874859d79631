package worker

import (
	"github.com/spec-kit/storefront-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
