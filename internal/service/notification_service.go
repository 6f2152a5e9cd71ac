package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/outage-service/internal/config"
	"github.com/spec-kit/outage-service/internal/events"
)

// NotificationService forwards incident events to NOC notification
// channels. Delivery itself is stubbed; only the dispatch seam is wired.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
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
	n.dispatcher.Subscribe(events.EventCrisisOpened, n.handleCrisisOpened)
	n.dispatcher.Subscribe(events.EventCrisisResolved, n.handleCrisisResolved)
	n.dispatcher.Subscribe(events.EventTicketOpened, n.handleTicketOpened)
	n.dispatcher.Subscribe(events.EventAlertSuppressed, n.handleAlertSuppressed)
}

func (n *NotificationService) handleCrisisOpened(ctx context.Context, event events.Event) error {
	n.logger.Info("CrisisOpened", zap.String("crisis_event_id", event.CrisisEventID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCrisisResolved(ctx context.Context, event events.Event) error {
	n.logger.Info("CrisisResolved", zap.String("crisis_event_id", event.CrisisEventID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketOpened(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketOpened", zap.String("crisis_event_id", event.CrisisEventID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAlertSuppressed(ctx context.Context, event events.Event) error {
	n.logger.Debug("AlertSuppressed", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("crisis_event_id", event.CrisisEventID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("crisis_event_id", event.CrisisEventID),
		zap.String("event_type", string(event.Type)))
}
