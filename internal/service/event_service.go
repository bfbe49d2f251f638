package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-dashboard/internal/events"
)

// EventService reacts to lead lifecycle events: it logs them and drops
// cached analytics that no longer reflect the store.
type EventService struct {
	dispatcher events.Dispatcher
	analytics  *AnalyticsService
	logger     *zap.Logger
}

// NewEventService creates the service.
func NewEventService(dispatcher events.Dispatcher, analytics *AnalyticsService, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		dispatcher: dispatcher,
		analytics:  analytics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (e *EventService) RegisterHandlers() {
	if e.dispatcher == nil {
		return
	}
	e.dispatcher.Subscribe(events.EventLeadCreated, e.handleLeadsChanged)
	e.dispatcher.Subscribe(events.EventLeadsSeeded, e.handleLeadsChanged)
	e.dispatcher.Subscribe(events.EventLeadsCleared, e.handleLeadsChanged)
}

func (e *EventService) handleLeadsChanged(ctx context.Context, event events.Event) error {
	e.logger.Info("leads changed",
		zap.String("event_type", string(event.Type)),
		zap.String("lead_id", event.LeadID),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	if e.analytics == nil {
		return nil
	}
	return e.analytics.InvalidateCache(ctx)
}
