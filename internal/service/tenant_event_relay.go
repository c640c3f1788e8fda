// FILE: internal/service/tenant_event_relay.go
package service

import (
	"context"

	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/pkg/events"
	"schoolhub-be/pkg/tenant"

	"github.com/ThreeDotsLabs/watermill/message"
)

// tenantEventRelay forwards committed store mutations from the in-process
// bus to the NATS event stream. Loads are session-local and not forwarded.
type tenantEventRelay struct {
	subscriber message.Subscriber
	topicName  string
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewTenantEventRelay(subscriber message.Subscriber, topicName string, publisher events.Publisher, log logger.ILogger) IConsumerService {
	return &tenantEventRelay{
		subscriber: subscriber,
		topicName:  topicName,
		publisher:  publisher,
		logger:     log,
	}
}

func (r *tenantEventRelay) Consume(ctx context.Context) error {
	messages, err := r.subscriber.Subscribe(ctx, r.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			r.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (r *tenantEventRelay) processMessage(ctx context.Context, msg *message.Message) {
	// NATS outages must not back up the in-process bus, so every message is
	// acked and failures are logged.
	defer msg.Ack()

	change, err := tenant.DecodeChange(msg)
	if err != nil {
		r.logger.Error("EVENT_RELAY", "Failed to unmarshal change", map[string]interface{}{"error": err.Error()})
		return
	}

	var ev events.Event
	switch change.Kind {
	case tenant.ChangeTenantUpdated:
		ev = events.TenantUpdated(change.TenantID, change.UserID, change.OccurredAt)
	case tenant.ChangeFeatureToggled:
		ev = events.TenantFeatureToggled(change.TenantID, change.UserID, change.FeatureKey, change.Enabled, change.OccurredAt)
	default:
		return
	}

	if err := r.publisher.Publish(ctx, ev); err != nil {
		r.logger.Warn("EVENT_RELAY", "Failed to publish tenant event", map[string]interface{}{
			"type":      ev.EventType(),
			"tenant_id": change.TenantID.String(),
			"error":     err.Error(),
		})
	}
}
