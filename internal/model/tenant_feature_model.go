// FILE: internal/model/tenant_feature_model.go
// GORM model for the tenant_features table
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TenantFeature is unique per (tenant_id, feature_key); that pair is the upsert target.
type TenantFeature struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantId   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_tenant_features_tenant_key,priority:1"`
	Tenant     *Tenant        `gorm:"foreignKey:TenantId;references:Id;constraint:OnDelete:CASCADE;"`
	FeatureKey string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_features_tenant_key,priority:2"`
	IsEnabled  bool           `gorm:"not null"`
	Config     datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'::jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (TenantFeature) TableName() string {
	return "tenant_features"
}
