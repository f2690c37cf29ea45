package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/query-service/internal/events"
)

// NotificationService logs lifecycle events for downstream consumers. The
// delivery channels are stubs; the subscription wiring is the contract.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventQueryCreated, n.handleQueryCreated)
	n.dispatcher.Subscribe(events.EventQueryTransitioned, n.handleQueryTransitioned)
	n.dispatcher.Subscribe(events.EventImportCompleted, n.handleImportCompleted)
}

func (n *NotificationService) handleQueryCreated(_ context.Context, event events.Event) error {
	n.logger.Info("QueryCreated",
		zap.Int64("query_id", event.QueryID),
		zap.String("client", event.Actor.Username),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleQueryTransitioned(_ context.Context, event events.Event) error {
	n.logger.Info("QueryTransitioned",
		zap.Int64("query_id", event.QueryID),
		zap.String("actor", event.Actor.Username),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleImportCompleted(_ context.Context, event events.Event) error {
	n.logger.Info("ImportCompleted", zap.Any("payload", event.Payload))
	return nil
}
