package settings

import (
	"context"
	"errors"
	"strings"
	"sync"

	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/validation"
	"schoolhub-be/pkg/tenant"
)

var (
	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrNotLoaded      = errors.New("settings not loaded")
)

// Draft is the editable copy of the tenant's settings.
type Draft struct {
	Name string `json:"name" validate:"required,notblank,max=255"`

	PrimaryColor   string `json:"primary_color" validate:"required,hexrgb"`
	SecondaryColor string `json:"secondary_color" validate:"required,hexrgb"`
	AccentColor    string `json:"accent_color" validate:"required,hexrgb"`
	FontFamily     string `json:"font_family" validate:"required,max=100"`

	Address string `json:"address" validate:"max=500"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=30"`

	Timezone string `json:"timezone" validate:"max=50"`
	Language string `json:"language" validate:"max=10"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

func DraftFromTenant(t *entity.Tenant) Draft {
	return Draft{
		Name:           t.Name,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		AccentColor:    t.AccentColor,
		FontFamily:     t.FontFamily,
		Address:        t.Address,
		Email:          t.Email,
		Phone:          t.Phone,
		Timezone:       t.Timezone,
		Language:       t.Language,
		Currency:       t.Currency,
	}
}

// Patch carries every draft field.
func (d Draft) Patch() entity.TenantPatch {
	return entity.TenantPatch{
		Name:           &d.Name,
		PrimaryColor:   &d.PrimaryColor,
		SecondaryColor: &d.SecondaryColor,
		AccentColor:    &d.AccentColor,
		FontFamily:     &d.FontFamily,
		Address:        &d.Address,
		Email:          &d.Email,
		Phone:          &d.Phone,
		Timezone:       &d.Timezone,
		Language:       &d.Language,
		Currency:       &d.Currency,
	}
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "settings: invalid draft"
}

// Panel edits a local draft and submits it through the tenant store.
type Panel struct {
	store *tenant.Store

	mu     sync.Mutex
	loaded bool
	base   Draft
	draft  Draft
	saving bool
}

func NewPanel(store *tenant.Store) *Panel {
	return &Panel{store: store}
}

// Load copies the store's tenant into the draft.
func (p *Panel) Load() error {
	t := p.store.Tenant()
	if t == nil {
		return tenant.ErrNoTenant
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saving {
		return ErrSaveInProgress
	}
	p.base = DraftFromTenant(t)
	p.draft = p.base
	p.loaded = true
	return nil
}

func (p *Panel) Draft() (Draft, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return Draft{}, ErrNotLoaded
	}
	return p.draft, nil
}

func (p *Panel) Edit(fn func(d *Draft)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return ErrNotLoaded
	}
	if p.saving {
		return ErrSaveInProgress
	}
	fn(&p.draft)
	return nil
}

func (p *Panel) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded && p.draft != p.base
}

func (p *Panel) Saving() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saving
}

// Save validates the draft and submits it. Only one save runs at a time.
// On failure the draft keeps the user's edits.
func (p *Panel) Save(ctx context.Context) error {
	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return ErrNotLoaded
	}
	if p.saving {
		p.mu.Unlock()
		return ErrSaveInProgress
	}
	p.draft.Name = strings.TrimSpace(p.draft.Name)
	if fields := validation.Fields(validation.Struct(p.draft)); fields != nil {
		p.mu.Unlock()
		return &ValidationError{Fields: fields}
	}
	submitted := p.draft
	p.saving = true
	p.mu.Unlock()

	err := p.store.UpdateTenant(ctx, submitted.Patch())

	p.mu.Lock()
	defer p.mu.Unlock()
	p.saving = false
	if err != nil {
		return err
	}
	p.base = submitted
	return nil
}

// Reset discards edits and reloads from the store snapshot.
func (p *Panel) Reset() error {
	return p.Load()
}
