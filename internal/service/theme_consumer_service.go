// FILE: internal/service/theme_consumer_service.go
package service

import (
	"context"

	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/pkg/tenant"
	"schoolhub-be/pkg/theme"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// themeConsumerService re-applies the theme whenever a store publishes a new
// tenant reference.
type themeConsumerService struct {
	subscriber message.Subscriber
	topicName  string
	theme      *theme.Resolver
	logger     logger.ILogger
}

func NewThemeConsumerService(subscriber message.Subscriber, topicName string, themeResolver *theme.Resolver, log logger.ILogger) IConsumerService {
	return &themeConsumerService{
		subscriber: subscriber,
		topicName:  topicName,
		theme:      themeResolver,
		logger:     log,
	}
}

func (cs *themeConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *themeConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	change, err := tenant.DecodeChange(msg)
	if err != nil {
		cs.logger.Error("THEME_CONSUMER", "Failed to unmarshal change", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if !change.TenantReplaced || change.Tenant == nil {
		msg.Ack()
		return
	}

	vars, err := cs.theme.ApplyTheme(ctx, change.Tenant)
	if err != nil {
		cs.logger.Error("THEME_CONSUMER", "Failed to apply theme", map[string]interface{}{
			"tenant_id": change.TenantID.String(),
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Debug("THEME_CONSUMER", "Theme applied", map[string]interface{}{
		"tenant_id": change.TenantID.String(),
		"kind":      string(change.Kind),
		"primary":   vars.Primary,
	})
	msg.Ack()
}
