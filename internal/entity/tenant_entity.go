// FILE: internal/entity/tenant_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type TenantStatus string
type TenantPlan string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusTrial     TenantStatus = "trial"

	TenantPlanBasic      TenantPlan = "basic"
	TenantPlanPremium    TenantPlan = "premium"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

// Tenant is one school / organization.
type Tenant struct {
	Id     uuid.UUID
	Slug   string // Unique, never changes after onboarding
	Name   string
	Status TenantStatus
	Plan   TenantPlan

	// Branding (#RRGGBB)
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
	FontFamily     string

	// Contact
	Address string
	Email   string
	Phone   string

	// Locale
	Timezone string
	Language string
	Currency string

	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so callers never share time pointers with the original.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	c := *t
	if t.SubscriptionStart != nil {
		start := *t.SubscriptionStart
		c.SubscriptionStart = &start
	}
	if t.SubscriptionEnd != nil {
		end := *t.SubscriptionEnd
		c.SubscriptionEnd = &end
	}
	return &c
}

// TenantPatch is a partial update. Nil fields are left untouched.
// Slug and Id are deliberately absent.
type TenantPatch struct {
	Name   *string
	Status *TenantStatus
	Plan   *TenantPlan

	PrimaryColor   *string
	SecondaryColor *string
	AccentColor    *string
	FontFamily     *string

	Address *string
	Email   *string
	Phone   *string

	Timezone *string
	Language *string
	Currency *string

	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time
}

func (p TenantPatch) IsEmpty() bool {
	return p.Name == nil && p.Status == nil && p.Plan == nil &&
		p.PrimaryColor == nil && p.SecondaryColor == nil && p.AccentColor == nil && p.FontFamily == nil &&
		p.Address == nil && p.Email == nil && p.Phone == nil &&
		p.Timezone == nil && p.Language == nil && p.Currency == nil &&
		p.SubscriptionStart == nil && p.SubscriptionEnd == nil
}

// Colors returns the branding colors carried by the patch, keyed by field name.
func (p TenantPatch) Colors() map[string]string {
	colors := make(map[string]string, 3)
	if p.PrimaryColor != nil {
		colors["primary_color"] = *p.PrimaryColor
	}
	if p.SecondaryColor != nil {
		colors["secondary_color"] = *p.SecondaryColor
	}
	if p.AccentColor != nil {
		colors["accent_color"] = *p.AccentColor
	}
	return colors
}

// ApplyTo merges the patch over t in place.
func (p TenantPatch) ApplyTo(t *Tenant) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Plan != nil {
		t.Plan = *p.Plan
	}
	if p.PrimaryColor != nil {
		t.PrimaryColor = *p.PrimaryColor
	}
	if p.SecondaryColor != nil {
		t.SecondaryColor = *p.SecondaryColor
	}
	if p.AccentColor != nil {
		t.AccentColor = *p.AccentColor
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.Address != nil {
		t.Address = *p.Address
	}
	if p.Email != nil {
		t.Email = *p.Email
	}
	if p.Phone != nil {
		t.Phone = *p.Phone
	}
	if p.Timezone != nil {
		t.Timezone = *p.Timezone
	}
	if p.Language != nil {
		t.Language = *p.Language
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.SubscriptionStart != nil {
		start := *p.SubscriptionStart
		t.SubscriptionStart = &start
	}
	if p.SubscriptionEnd != nil {
		end := *p.SubscriptionEnd
		t.SubscriptionEnd = &end
	}
}
