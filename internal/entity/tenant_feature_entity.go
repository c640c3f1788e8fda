// FILE: internal/entity/tenant_feature_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// TenantFeature is the per-tenant override for one catalog entry.
// A missing row means the feature was never provisioned.
type TenantFeature struct {
	Id         uuid.UUID
	TenantId   uuid.UUID
	FeatureKey string
	IsEnabled  bool
	Config     map[string]interface{}

	// ConfigMalformed is set when the stored config was not a JSON object.
	// Config is then empty.
	ConfigMalformed bool

	CreatedAt time.Time
}

// Clone deep-copies the feature including its config.
func (f *TenantFeature) Clone() *TenantFeature {
	if f == nil {
		return nil
	}
	c := *f
	c.Config = CloneConfig(f.Config)
	return &c
}

// CloneConfig deep-copies a decoded JSON object.
func CloneConfig(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = cloneJSONValue(v)
	}
	return dst
}

func cloneJSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return CloneConfig(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneJSONValue(item)
		}
		return out
	default:
		return val
	}
}
