// FILE: internal/model/tenant_model.go
// GORM models for the tenants and profiles tables
package model

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug   string    `gorm:"type:varchar(100);uniqueIndex:idx_tenants_slug;not null"`
	Name   string    `gorm:"type:varchar(255);not null"`
	Status string    `gorm:"type:tenant_status;not null"`
	Plan   string    `gorm:"type:tenant_plan;not null"`

	PrimaryColor   string `gorm:"type:varchar(7);not null"`
	SecondaryColor string `gorm:"type:varchar(7);not null"`
	AccentColor    string `gorm:"type:varchar(7);not null"`
	FontFamily     string `gorm:"type:varchar(100);not null"`

	Address string `gorm:"type:text"`
	Email   string `gorm:"type:varchar(255)"`
	Phone   string `gorm:"type:varchar(30)"`

	Timezone string `gorm:"type:varchar(50)"`
	Language string `gorm:"type:varchar(10)"`
	Currency string `gorm:"type:varchar(3)"`

	SubscriptionStart *time.Time `gorm:"type:timestamptz"`
	SubscriptionEnd   *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Tenant) TableName() string {
	return "tenants"
}

type Profile struct {
	UserId    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantId  *uuid.UUID `gorm:"type:uuid;index"`
	Tenant    *Tenant    `gorm:"foreignKey:TenantId;references:Id;constraint:OnDelete:SET NULL;"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
