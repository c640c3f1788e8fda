// FILE: internal/service/session_service.go
package service

import (
	"context"
	"errors"
	"time"

	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/pkg/metrics"
	"schoolhub-be/internal/repository/memory"
	"schoolhub-be/pkg/onboarding"
	"schoolhub-be/pkg/settings"
	"schoolhub-be/pkg/tenant"

	"github.com/google/uuid"
)

// Session is the per-user runtime context. The store lives exactly as long
// as the session entry.
type Session struct {
	UserID uuid.UUID
	Store  *tenant.Store
	Flags  *tenant.FeatureFlags
	Wizard *onboarding.Wizard
	Panel  *settings.Panel
}

type ISessionService interface {
	// Open returns the user's session, creating and loading it on first use.
	// A resolution failure is returned and nothing is cached, so the next
	// call retries.
	Open(ctx context.Context, userID uuid.UUID) (*Session, error)
	Close(userID uuid.UUID)
	Count() int
}

type sessionService struct {
	sessions *memory.SessionRepository[*Session]
	deps     tenant.Deps
	finisher onboarding.Finisher
	metrics  *metrics.TenantMetrics
	logger   logger.ILogger
}

func NewSessionService(ttl time.Duration, deps tenant.Deps, finisher onboarding.Finisher) ISessionService {
	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &sessionService{
		sessions: memory.NewSessionRepository[*Session](ttl),
		deps:     deps,
		finisher: finisher,
		metrics:  deps.Metrics,
		logger:   log,
	}
}

func (s *sessionService) Open(ctx context.Context, userID uuid.UUID) (*Session, error) {
	session, err := s.sessions.GetOrCreate(userID.String(), func() (*Session, error) {
		return s.build(ctx, userID)
	})
	s.metrics.SetActiveSessions(s.sessions.Count())
	return session, err
}

func (s *sessionService) build(ctx context.Context, userID uuid.UUID) (*Session, error) {
	store := tenant.NewStore(userID, s.deps)
	if err := store.Load(ctx); err != nil && !errors.Is(err, tenant.ErrNotFound) {
		return nil, err
	}

	session := &Session{
		UserID: userID,
		Store:  store,
		Flags:  tenant.NewFeatureFlags(store),
		Wizard: onboarding.NewWizard(userID, store.Catalog(), s.finisher),
		Panel:  settings.NewPanel(store),
	}
	if store.Tenant() != nil {
		if err := session.Panel.Load(); err != nil {
			s.logger.Warn("SESSION", "Settings panel not loaded", map[string]interface{}{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
	}
	return session, nil
}

func (s *sessionService) Close(userID uuid.UUID) {
	s.sessions.Delete(userID.String())
	s.metrics.SetActiveSessions(s.sessions.Count())
}

func (s *sessionService) Count() int {
	return s.sessions.Count()
}
