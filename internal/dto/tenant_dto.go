// FILE: internal/dto/tenant_dto.go
// DTOs for the tenant context, settings and feature flag endpoints
package dto

import (
	"time"

	"github.com/google/uuid"
)

type TenantResponse struct {
	Id                uuid.UUID  `json:"id"`
	Slug              string     `json:"slug"`
	Name              string     `json:"name"`
	Status            string     `json:"status"`
	Plan              string     `json:"plan"`
	PrimaryColor      string     `json:"primary_color"`
	SecondaryColor    string     `json:"secondary_color"`
	AccentColor       string     `json:"accent_color"`
	FontFamily        string     `json:"font_family"`
	Address           string     `json:"address"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Timezone          string     `json:"timezone"`
	Language          string     `json:"language"`
	Currency          string     `json:"currency"`
	SubscriptionStart *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time `json:"subscription_end,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type TenantFeatureResponse struct {
	Key       string                 `json:"key"`
	Name      string                 `json:"name,omitempty"`
	Category  string                 `json:"category,omitempty"`
	IsEnabled bool                   `json:"is_enabled"`
	Config    map[string]interface{} `json:"config"`
}

// TenantContextResponse is everything a client needs after session start.
type TenantContextResponse struct {
	Tenant      *TenantResponse         `json:"tenant"`
	Features    []TenantFeatureResponse `json:"features"`
	EnabledKeys []string                `json:"enabled_keys"`
	Theme       *ThemeResponse          `json:"theme,omitempty"`
}

type ThemeResponse struct {
	Variables map[string]string `json:"variables"`
	CSS       string            `json:"css"`
}

// TenantSettingsRequest replaces the editable settings as a whole.
type TenantSettingsRequest struct {
	Name           string `json:"name" validate:"required,notblank,max=255"`
	PrimaryColor   string `json:"primary_color" validate:"required,hexrgb"`
	SecondaryColor string `json:"secondary_color" validate:"required,hexrgb"`
	AccentColor    string `json:"accent_color" validate:"required,hexrgb"`
	FontFamily     string `json:"font_family" validate:"required,max=100"`
	Address        string `json:"address" validate:"max=500"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"max=30"`
	Timezone       string `json:"timezone" validate:"max=50"`
	Language       string `json:"language" validate:"max=10"`
	Currency       string `json:"currency" validate:"omitempty,len=3"`
}

type TenantSettingsResponse struct {
	Settings TenantSettingsRequest `json:"settings"`
	Dirty    bool                  `json:"dirty"`
	Saving   bool                  `json:"saving"`
}

type ToggleFeatureRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type FeatureFlagResponse struct {
	Key       string                 `json:"key"`
	IsEnabled bool                   `json:"is_enabled"`
	Config    map[string]interface{} `json:"config"`
}
