package worker

import (
	"github.com/eventhub/event-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// dispatcher. It must run before the server accepts requests.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
