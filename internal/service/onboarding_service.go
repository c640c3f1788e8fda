// FILE: internal/service/onboarding_service.go
package service

import (
	"context"
	"errors"
	"time"

	"schoolhub-be/internal/constant"
	"schoolhub-be/internal/dto"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/pkg/mailer"
	"schoolhub-be/pkg/events"
	"schoolhub-be/pkg/onboarding"
	"schoolhub-be/pkg/tenant"

	"github.com/google/uuid"
)

var ErrAlreadyOnboarded = errors.New("user already belongs to a tenant")

type IOnboardingService interface {
	State(ctx context.Context, userID uuid.UUID) (*dto.OnboardingStateResponse, error)
	UpdateStep(ctx context.Context, userID uuid.UUID, req *dto.OnboardingStepRequest) (*dto.OnboardingStateResponse, error)
	ApplyPreset(ctx context.Context, userID uuid.UUID, name string) (*dto.OnboardingStateResponse, error)
	Next(ctx context.Context, userID uuid.UUID) (*dto.OnboardingStateResponse, error)
	Back(ctx context.Context, userID uuid.UUID) (*dto.OnboardingStateResponse, error)
}

type onboardingService struct {
	sessions  ISessionService
	publisher events.Publisher
	mailer    mailer.IEmailService
	notifier  Notifier
	logger    logger.ILogger
}

func NewOnboardingService(
	sessions ISessionService,
	publisher events.Publisher,
	emailService mailer.IEmailService,
	notifier Notifier,
	log logger.ILogger,
) IOnboardingService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &onboardingService{
		sessions:  sessions,
		publisher: publisher,
		mailer:    emailService,
		notifier:  notifier,
		logger:    log,
	}
}

func (s *onboardingService) State(ctx context.Context, userID uuid.UUID) (*dto.OnboardingStateResponse, error) {
	session, err := s.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toOnboardingState(session), nil
}

// editable opens the session and refuses users that already have a tenant.
func (s *onboardingService) editable(ctx context.Context, userID uuid.UUID) (*Session, error) {
	session, err := s.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Store.Tenant() != nil {
		return nil, ErrAlreadyOnboarded
	}
	return session, nil
}

func (s *onboardingService) UpdateStep(ctx context.Context, userID uuid.UUID, req *dto.OnboardingStepRequest) (*dto.OnboardingStateResponse, error) {
	session, err := s.editable(ctx, userID)
	if err != nil {
		return nil, err
	}
	w := session.Wizard

	if req.Info != nil {
		if err := w.SetInfo(onboarding.Info{
			Name:         req.Info.Name,
			Slug:         req.Info.Slug,
			ContactEmail: req.Info.ContactEmail,
		}); err != nil {
			return nil, err
		}
	}
	if req.Contact != nil {
		if err := w.SetContact(onboarding.Contact{
			Address:  req.Contact.Address,
			Phone:    req.Contact.Phone,
			Email:    req.Contact.Email,
			Timezone: req.Contact.Timezone,
			Language: req.Contact.Language,
			Currency: req.Contact.Currency,
		}); err != nil {
			return nil, err
		}
	}
	if req.Branding != nil {
		if err := w.SetBranding(onboarding.Branding{
			PrimaryColor:   req.Branding.PrimaryColor,
			SecondaryColor: req.Branding.SecondaryColor,
			AccentColor:    req.Branding.AccentColor,
			FontFamily:     req.Branding.FontFamily,
		}); err != nil {
			return nil, err
		}
	}
	if req.Features != nil {
		keys := make([]constant.FeatureKey, 0, len(req.Features))
		for _, k := range req.Features {
			keys = append(keys, constant.FeatureKey(k))
		}
		if err := w.SetFeatures(keys); err != nil {
			return nil, err
		}
	}
	return toOnboardingState(session), nil
}

func (s *onboardingService) ApplyPreset(ctx context.Context, userID uuid.UUID, name string) (*dto.OnboardingStateResponse, error) {
	session, err := s.editable(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := session.Wizard.ApplyPreset(name); err != nil {
		return nil, err
	}
	return toOnboardingState(session), nil
}

func (s *onboardingService) Back(ctx context.Context, userID uuid.UUID) (*dto.OnboardingStateResponse, error) {
	session, err := s.editable(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := session.Wizard.Back(); err != nil {
		return nil, err
	}
	return toOnboardingState(session), nil
}

func (s *onboardingService) Next(ctx context.Context, userID uuid.UUID) (*dto.OnboardingStateResponse, error) {
	session, err := s.editable(ctx, userID)
	if err != nil {
		return nil, err
	}

	step, err := session.Wizard.Next(ctx)
	if err != nil {
		var uerr *tenant.UpdateError
		if errors.As(err, &uerr) {
			s.notifier.Notify(userID, newToast(dto.ToastError, "Onboarding failed", uerr.Error()))
		}
		return nil, err
	}
	if step == onboarding.StepComplete {
		s.afterComplete(ctx, session)
	}
	return toOnboardingState(session), nil
}

// afterComplete runs once the tenant is committed. Nothing here can undo the
// onboarding, so every failure is only logged.
func (s *onboardingService) afterComplete(ctx context.Context, session *Session) {
	created := session.Wizard.Tenant()
	draft := session.Wizard.Draft()
	details := map[string]interface{}{
		"user_id":   session.UserID.String(),
		"tenant_id": created.Id.String(),
		"slug":      created.Slug,
	}

	if err := session.Store.Load(ctx); err != nil {
		s.logger.Warn("ONBOARDING_SERVICE", "Store reload after onboarding failed", withError(details, err))
	} else if err := session.Panel.Load(); err != nil {
		s.logger.Warn("ONBOARDING_SERVICE", "Settings panel load failed", withError(details, err))
	}

	if s.publisher != nil {
		ev := events.TenantOnboarded(created.Id, session.UserID, created.Slug, draft.Selection.Features, time.Now())
		if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
			s.logger.Warn("ONBOARDING_SERVICE", "Failed to publish TENANT_ONBOARDED", withError(details, err))
		}
	}

	if s.mailer != nil && draft.Info.ContactEmail != "" {
		to, name, slug := draft.Info.ContactEmail, created.Name, created.Slug
		go func() {
			if err := s.mailer.SendTenantWelcome(to, name, slug); err != nil {
				s.logger.Warn("ONBOARDING_SERVICE", "Welcome email not sent", withError(details, err))
			}
		}()
	}

	s.notifier.Notify(session.UserID, newToast(dto.ToastSuccess, "Welcome aboard", created.Name+" is ready."))
	s.logger.Info("ONBOARDING_SERVICE", "Tenant onboarded", details)
}

func withError(details map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(details)+1)
	for k, v := range details {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}

func toOnboardingState(session *Session) *dto.OnboardingStateResponse {
	w := session.Wizard
	d := w.Draft()

	catalog := make([]string, 0, len(w.Catalog()))
	for _, k := range w.Catalog() {
		catalog = append(catalog, string(k))
	}

	return &dto.OnboardingStateResponse{
		Step: w.Step().String(),
		Info: dto.OnboardingInfo{
			Name:         d.Info.Name,
			Slug:         d.Info.Slug,
			ContactEmail: d.Info.ContactEmail,
		},
		Contact: dto.OnboardingContact{
			Address:  d.Contact.Address,
			Phone:    d.Contact.Phone,
			Email:    d.Contact.Email,
			Timezone: d.Contact.Timezone,
			Language: d.Contact.Language,
			Currency: d.Contact.Currency,
		},
		Branding: dto.OnboardingBranding{
			PrimaryColor:   d.Branding.PrimaryColor,
			SecondaryColor: d.Branding.SecondaryColor,
			AccentColor:    d.Branding.AccentColor,
			FontFamily:     d.Branding.FontFamily,
		},
		Features: d.Selection.Features,
		Catalog:  catalog,
		Tenant:   toTenantResponse(w.Tenant()),
	}
}
