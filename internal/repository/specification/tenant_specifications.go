package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type ByTenantID struct {
	TenantID uuid.UUID
}

func (s ByTenantID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tenant_id = ?", s.TenantID)
}

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByFeatureKey struct {
	Key string
}

func (s ByFeatureKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("feature_key = ?", s.Key)
}
