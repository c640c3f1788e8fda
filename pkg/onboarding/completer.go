package onboarding

import (
	"context"
	"fmt"
	"strings"

	"schoolhub-be/internal/constant"
	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/pkg/metrics"
	"schoolhub-be/internal/repository/unitofwork"
	"schoolhub-be/pkg/tenant"
	"schoolhub-be/pkg/theme"

	"github.com/google/uuid"
)

const OpComplete = "onboarding.complete"

const (
	defaultTimezone = "UTC"
	defaultLanguage = "en"
	defaultCurrency = "USD"
)

// Completer is the transactional Finisher: tenant row, profile attach and
// one feature row per catalog key commit together or not at all.
type Completer struct {
	factory unitofwork.RepositoryFactory
	catalog constant.Catalog
	palette theme.Palette
	plan    entity.TenantPlan
	logger  logger.ILogger
	metrics *metrics.TenantMetrics
}

func NewCompleter(factory unitofwork.RepositoryFactory, catalog constant.Catalog, palette theme.Palette, log logger.ILogger, m *metrics.TenantMetrics) *Completer {
	if catalog == nil {
		catalog = constant.DefaultCatalog
	}
	return &Completer{
		factory: factory,
		catalog: catalog,
		palette: palette,
		plan:    entity.TenantPlanBasic,
		logger:  log,
		metrics: m,
	}
}

func (c *Completer) Finish(ctx context.Context, userID uuid.UUID, draft Draft) (*entity.Tenant, error) {
	t := c.buildTenant(draft)

	uow := c.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, c.fail(userID, t, fmt.Errorf("begin: %w", err))
	}
	defer uow.Rollback()

	if err := uow.TenantRepository().Create(ctx, t); err != nil {
		return nil, c.fail(userID, t, fmt.Errorf("create tenant: %w", err))
	}
	if err := uow.ProfileRepository().AttachTenant(ctx, userID, t.Id); err != nil {
		return nil, c.fail(userID, t, fmt.Errorf("attach profile: %w", err))
	}

	selected := draft.Selected()
	rows := make([]*entity.TenantFeature, 0, len(c.catalog))
	enabled := 0
	for _, key := range c.catalog {
		if selected[key] {
			enabled++
		}
		rows = append(rows, &entity.TenantFeature{
			TenantId:   t.Id,
			FeatureKey: string(key),
			IsEnabled:  selected[key],
			Config:     map[string]interface{}{},
		})
	}
	if err := uow.TenantFeatureRepository().CreateBatch(ctx, rows); err != nil {
		return nil, c.fail(userID, t, fmt.Errorf("create features: %w", err))
	}

	if err := uow.Commit(); err != nil {
		return nil, c.fail(userID, t, fmt.Errorf("commit: %w", err))
	}

	c.metrics.Onboarding("ok")
	c.logger.Info("ONBOARDING", "Tenant created", map[string]interface{}{
		"tenant_id": t.Id.String(),
		"slug":      t.Slug,
		"user_id":   userID.String(),
		"enabled":   enabled,
	})
	return t, nil
}

func (c *Completer) buildTenant(d Draft) *entity.Tenant {
	return &entity.Tenant{
		Slug:           d.Info.Slug,
		Name:           strings.TrimSpace(d.Info.Name),
		Status:         entity.TenantStatusTrial,
		Plan:           c.plan,
		PrimaryColor:   orDefault(d.Branding.PrimaryColor, c.palette.Primary),
		SecondaryColor: orDefault(d.Branding.SecondaryColor, c.palette.Secondary),
		AccentColor:    orDefault(d.Branding.AccentColor, c.palette.Accent),
		FontFamily:     orDefault(strings.TrimSpace(d.Branding.FontFamily), c.palette.FontFamily),
		Address:        d.Contact.Address,
		Email:          orDefault(d.Contact.Email, d.Info.ContactEmail),
		Phone:          d.Contact.Phone,
		Timezone:       orDefault(d.Contact.Timezone, defaultTimezone),
		Language:       orDefault(d.Contact.Language, defaultLanguage),
		Currency:       strings.ToUpper(orDefault(d.Contact.Currency, defaultCurrency)),
	}
}

func (c *Completer) fail(userID uuid.UUID, t *entity.Tenant, err error) error {
	c.metrics.Onboarding("failed")
	c.logger.Error("ONBOARDING", "Onboarding rolled back", map[string]interface{}{
		"slug":    t.Slug,
		"user_id": userID.String(),
		"error":   err.Error(),
	})
	return &tenant.UpdateError{Op: OpComplete, Err: err}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
