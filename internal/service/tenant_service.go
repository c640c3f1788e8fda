// FILE: internal/service/tenant_service.go
package service

import (
	"context"
	"errors"

	"schoolhub-be/internal/constant"
	"schoolhub-be/internal/dto"
	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/pkg/settings"
	"schoolhub-be/pkg/tenant"
	"schoolhub-be/pkg/theme"

	"github.com/google/uuid"
)

type ITenantService interface {
	Context(ctx context.Context, userID uuid.UUID) (*dto.TenantContextResponse, error)
	Reload(ctx context.Context, userID uuid.UUID) (*dto.TenantContextResponse, error)

	GetSettings(ctx context.Context, userID uuid.UUID) (*dto.TenantSettingsResponse, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.TenantSettingsRequest) (*dto.TenantSettingsResponse, error)
	ResetSettings(ctx context.Context, userID uuid.UUID) (*dto.TenantSettingsResponse, error)

	GetFeature(ctx context.Context, userID uuid.UUID, key string) (*dto.FeatureFlagResponse, error)
	ToggleFeature(ctx context.Context, userID uuid.UUID, key string, enabled bool) (*dto.FeatureFlagResponse, error)

	Theme(ctx context.Context, userID uuid.UUID) (*dto.ThemeResponse, error)
}

type tenantService struct {
	sessions ISessionService
	theme    *theme.Resolver
	notifier Notifier
	logger   logger.ILogger
}

func NewTenantService(sessions ISessionService, themeResolver *theme.Resolver, notifier Notifier, log logger.ILogger) ITenantService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &tenantService{
		sessions: sessions,
		theme:    themeResolver,
		notifier: notifier,
		logger:   log,
	}
}

// loaded opens the session and requires a resolved tenant.
func (s *tenantService) loaded(ctx context.Context, userID uuid.UUID) (*Session, *entity.Tenant, error) {
	session, err := s.sessions.Open(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	t := session.Store.Tenant()
	if t == nil {
		return session, nil, tenant.ErrNotFound
	}
	return session, t, nil
}

func (s *tenantService) Context(ctx context.Context, userID uuid.UUID) (*dto.TenantContextResponse, error) {
	session, t, err := s.loaded(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.contextResponse(ctx, session, t), nil
}

func (s *tenantService) Reload(ctx context.Context, userID uuid.UUID) (*dto.TenantContextResponse, error) {
	session, err := s.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := session.Store.Load(ctx); err != nil {
		return nil, err
	}
	if err := session.Panel.Load(); err != nil && !errors.Is(err, settings.ErrSaveInProgress) {
		return nil, err
	}
	return s.contextResponse(ctx, session, session.Store.Tenant()), nil
}

func (s *tenantService) contextResponse(ctx context.Context, session *Session, t *entity.Tenant) *dto.TenantContextResponse {
	snap := session.Store.Snapshot()

	features := make([]dto.TenantFeatureResponse, 0, len(snap.Features))
	for _, f := range snap.Features {
		item := dto.TenantFeatureResponse{
			Key:       f.FeatureKey,
			IsEnabled: f.IsEnabled,
			Config:    f.Config,
		}
		if def, ok := constant.Definition(constant.FeatureKey(f.FeatureKey)); ok {
			item.Name = def.Name
			item.Category = def.Category
		}
		features = append(features, item)
	}

	enabled := make([]string, 0)
	for _, k := range session.Flags.EnabledKeys() {
		enabled = append(enabled, string(k))
	}

	resp := &dto.TenantContextResponse{
		Tenant:      toTenantResponse(t),
		Features:    features,
		EnabledKeys: enabled,
	}
	if vars, err := s.currentTheme(ctx, t); err == nil {
		resp.Theme = toThemeResponse(vars)
	}
	return resp
}

func (s *tenantService) GetSettings(ctx context.Context, userID uuid.UUID) (*dto.TenantSettingsResponse, error) {
	session, _, err := s.loaded(ctx, userID)
	if err != nil {
		return nil, err
	}
	return settingsResponse(session.Panel)
}

func (s *tenantService) UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.TenantSettingsRequest) (*dto.TenantSettingsResponse, error) {
	session, _, err := s.loaded(ctx, userID)
	if err != nil {
		return nil, err
	}
	panel := session.Panel

	err = panel.Edit(func(d *settings.Draft) { *d = draftFromRequest(req) })
	if errors.Is(err, settings.ErrNotLoaded) {
		if err = panel.Load(); err == nil {
			err = panel.Edit(func(d *settings.Draft) { *d = draftFromRequest(req) })
		}
	}
	if err != nil {
		return nil, err
	}

	if err := panel.Save(ctx); err != nil {
		var verr *settings.ValidationError
		if !errors.As(err, &verr) && !errors.Is(err, settings.ErrSaveInProgress) {
			s.notifier.Notify(userID, newToast(dto.ToastError, "Settings not saved", err.Error()))
		}
		return nil, err
	}

	s.notifier.Notify(userID, newToast(dto.ToastSuccess, "Settings saved", "Your school settings have been updated."))
	return settingsResponse(panel)
}

func (s *tenantService) ResetSettings(ctx context.Context, userID uuid.UUID) (*dto.TenantSettingsResponse, error) {
	session, _, err := s.loaded(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := session.Panel.Reset(); err != nil {
		return nil, err
	}
	return settingsResponse(session.Panel)
}

// GetFeature answers for any key; unknown keys are simply disabled.
func (s *tenantService) GetFeature(ctx context.Context, userID uuid.UUID, key string) (*dto.FeatureFlagResponse, error) {
	session, _, err := s.loaded(ctx, userID)
	if err != nil {
		return nil, err
	}
	k := constant.FeatureKey(key)
	return &dto.FeatureFlagResponse{
		Key:       key,
		IsEnabled: session.Flags.IsEnabled(k),
		Config:    session.Flags.Config(k),
	}, nil
}

func (s *tenantService) ToggleFeature(ctx context.Context, userID uuid.UUID, key string, enabled bool) (*dto.FeatureFlagResponse, error) {
	session, err := s.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	k := constant.FeatureKey(key)
	if err := session.Store.ToggleFeature(ctx, k, enabled); err != nil {
		if !tenant.IsValidation(err) {
			s.notifier.Notify(userID, newToast(dto.ToastError, "Feature not updated", err.Error()))
		}
		return nil, err
	}

	title := "Feature disabled"
	if enabled {
		title = "Feature enabled"
	}
	name := key
	if def, ok := constant.Definition(k); ok {
		name = def.Name
	}
	s.notifier.Notify(userID, newToast(dto.ToastSuccess, title, name))

	return &dto.FeatureFlagResponse{
		Key:       key,
		IsEnabled: session.Flags.IsEnabled(k),
		Config:    session.Flags.Config(k),
	}, nil
}

func (s *tenantService) Theme(ctx context.Context, userID uuid.UUID) (*dto.ThemeResponse, error) {
	_, t, err := s.loaded(ctx, userID)
	if err != nil {
		return nil, err
	}
	vars, err := s.currentTheme(ctx, t)
	if err != nil {
		return nil, err
	}
	return toThemeResponse(vars), nil
}

// currentTheme reads the applied variables. When nothing is applied yet, or
// the consumer has not caught up with the latest branding, it applies first.
func (s *tenantService) currentTheme(ctx context.Context, t *entity.Tenant) (theme.Variables, error) {
	vars, ok, err := s.theme.Current(ctx, t.Id)
	if err == nil && ok && s.theme.InSync(t, vars) {
		return vars, nil
	}
	if err != nil {
		s.logger.Warn("TENANT_SERVICE", "Theme surface read failed, re-applying", map[string]interface{}{
			"tenant_id": t.Id.String(),
			"error":     err.Error(),
		})
	}
	return s.theme.ApplyTheme(ctx, t)
}

func settingsResponse(panel *settings.Panel) (*dto.TenantSettingsResponse, error) {
	d, err := panel.Draft()
	if err != nil {
		return nil, err
	}
	return &dto.TenantSettingsResponse{
		Settings: dto.TenantSettingsRequest{
			Name:           d.Name,
			PrimaryColor:   d.PrimaryColor,
			SecondaryColor: d.SecondaryColor,
			AccentColor:    d.AccentColor,
			FontFamily:     d.FontFamily,
			Address:        d.Address,
			Email:          d.Email,
			Phone:          d.Phone,
			Timezone:       d.Timezone,
			Language:       d.Language,
			Currency:       d.Currency,
		},
		Dirty:  panel.Dirty(),
		Saving: panel.Saving(),
	}, nil
}

func draftFromRequest(req *dto.TenantSettingsRequest) settings.Draft {
	return settings.Draft{
		Name:           req.Name,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		AccentColor:    req.AccentColor,
		FontFamily:     req.FontFamily,
		Address:        req.Address,
		Email:          req.Email,
		Phone:          req.Phone,
		Timezone:       req.Timezone,
		Language:       req.Language,
		Currency:       req.Currency,
	}
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	if t == nil {
		return nil
	}
	return &dto.TenantResponse{
		Id:                t.Id,
		Slug:              t.Slug,
		Name:              t.Name,
		Status:            string(t.Status),
		Plan:              string(t.Plan),
		PrimaryColor:      t.PrimaryColor,
		SecondaryColor:    t.SecondaryColor,
		AccentColor:       t.AccentColor,
		FontFamily:        t.FontFamily,
		Address:           t.Address,
		Email:             t.Email,
		Phone:             t.Phone,
		Timezone:          t.Timezone,
		Language:          t.Language,
		Currency:          t.Currency,
		SubscriptionStart: t.SubscriptionStart,
		SubscriptionEnd:   t.SubscriptionEnd,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func toThemeResponse(vars theme.Variables) *dto.ThemeResponse {
	return &dto.ThemeResponse{Variables: vars.Map(), CSS: vars.CSS()}
}
