package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/events"
)

// AuditService records session lifecycle events to the structured log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to session events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserSignedUp, a.handleEvent)
	a.dispatcher.Subscribe(events.EventUserSignedIn, a.handleEvent)
	a.dispatcher.Subscribe(events.EventUserSignedOut, a.handleEvent)
}

func (a *AuditService) handleEvent(_ context.Context, event events.Event) error {
	a.logger.Info("session event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload),
	)
	return nil
}
