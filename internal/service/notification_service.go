package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eventhub/event-service/internal/config"
	"github.com/eventhub/event-service/internal/events"
)

// NotificationService turns moderation and workflow events into audit log
// lines and outbound notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
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
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserSuspended, n.handleAccountChange)
	n.dispatcher.Subscribe(events.EventUserActivated, n.handleAccountChange)
	n.dispatcher.Subscribe(events.EventEventSuspended, n.handleEventModerated)
	n.dispatcher.Subscribe(events.EventEventUnsuspended, n.handleEventModerated)
	n.dispatcher.Subscribe(events.EventPromotionAccepted, n.handlePromotionDecided)
	n.dispatcher.Subscribe(events.EventPromotionRejected, n.handlePromotionDecided)
	n.dispatcher.Subscribe(events.EventRegistrationUpdated, n.handleRegistrationUpdated)
}

func (n *NotificationService) audit(event events.Event) {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("subject_id", event.SubjectID),
		zap.Int64("actor_id", event.Actor.UserID),
		zap.String("actor_type", string(event.Actor.AccountType)),
		zap.Any("payload", event.Payload))
}

func (n *NotificationService) handleAccountChange(ctx context.Context, event events.Event) error {
	n.audit(event)
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEventModerated(ctx context.Context, event events.Event) error {
	n.audit(event)
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePromotionDecided(ctx context.Context, event events.Event) error {
	n.audit(event)
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRegistrationUpdated(ctx context.Context, event events.Event) error {
	n.audit(event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
