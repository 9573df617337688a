package worker

import (
	"context"

	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/observability"
	"github.com/campus-aura/backend/internal/service"
)

// Subscribers lists the in-process consumers of domain events.
type Subscribers struct {
	Dispatcher    events.Dispatcher
	Notifications *service.NotificationService
	Forwarder     *events.KafkaForwarder
	Metrics       *observability.Metrics
}

// StartNotificationWorker registers notification handlers, the Kafka forwarder
// and the domain event counter on the dispatcher.
func StartNotificationWorker(subs Subscribers) {
	if subs.Dispatcher == nil {
		return
	}
	if subs.Notifications != nil {
		subs.Notifications.RegisterHandlers()
	}
	if subs.Forwarder != nil {
		subs.Dispatcher.Subscribe(events.AllEvents, subs.Forwarder.Handle)
	}
	if subs.Metrics != nil {
		metrics := subs.Metrics
		subs.Dispatcher.Subscribe(events.AllEvents, func(_ context.Context, event events.Event) error {
			metrics.RecordDomainEvent(string(event.Type))
			return nil
		})
	}
}
