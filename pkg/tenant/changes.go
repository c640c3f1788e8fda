package tenant

import (
	"context"
	"encoding/json"
	"time"

	"schoolhub-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type ChangeKind string

const (
	ChangeLoaded         ChangeKind = "tenant_loaded"
	ChangeTenantUpdated  ChangeKind = "tenant_updated"
	ChangeFeatureToggled ChangeKind = "feature_toggled"
)

// Change is emitted after every successful snapshot replace.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	UserID   uuid.UUID  `json:"user_id"`
	TenantID uuid.UUID  `json:"tenant_id"`

	// Tenant is a copy of the new tenant, nil after a load that found none.
	Tenant *entity.Tenant `json:"tenant,omitempty"`

	// TenantReplaced is true when the tenant reference changed identity,
	// i.e. consumers keyed on the tenant object must refresh.
	TenantReplaced bool `json:"tenant_replaced"`

	FeatureKey string `json:"feature_key,omitempty"`
	Enabled    bool   `json:"enabled,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

type ChangePublisher interface {
	Publish(ctx context.Context, change Change) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Change) error { return nil }

// NopPublisher drops every change.
func NopPublisher() ChangePublisher { return nopPublisher{} }

// WatermillPublisher puts changes on an in-process watermill topic.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

func NewWatermillPublisher(publisher message.Publisher, topic string) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher, topic: topic}
}

func (p *WatermillPublisher) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("kind", string(change.Kind))
	return p.publisher.Publish(p.topic, msg)
}

// DecodeChange is the consumer-side counterpart of WatermillPublisher.
func DecodeChange(msg *message.Message) (Change, error) {
	var change Change
	err := json.Unmarshal(msg.Payload, &change)
	return change, err
}
