package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeTenantOnboarded     = "TENANT_ONBOARDED"
	TypeTenantUpdated       = "TENANT_UPDATED"
	TypeTenantFeatureToggle = "TENANT_FEATURE_TOGGLED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TENANT_UPDATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is satisfied by the NATS publisher and by test doubles.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func newTenantEvent(eventType string, tenantID, userID uuid.UUID, at time.Time, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["tenant_id"] = tenantID.String()
	data["user_id"] = userID.String()
	data["occurred_at"] = at.UTC().Format(time.RFC3339)
	return BaseEvent{Type: eventType, Data: data, OccurredAt: at}
}

func TenantOnboarded(tenantID, userID uuid.UUID, slug string, enabled []string, at time.Time) BaseEvent {
	return newTenantEvent(TypeTenantOnboarded, tenantID, userID, at, map[string]interface{}{
		"slug":             slug,
		"enabled_features": enabled,
	})
}

func TenantUpdated(tenantID, userID uuid.UUID, at time.Time) BaseEvent {
	return newTenantEvent(TypeTenantUpdated, tenantID, userID, at, nil)
}

func TenantFeatureToggled(tenantID, userID uuid.UUID, key string, enabled bool, at time.Time) BaseEvent {
	return newTenantEvent(TypeTenantFeatureToggle, tenantID, userID, at, map[string]interface{}{
		"feature_key": key,
		"enabled":     enabled,
	})
}
