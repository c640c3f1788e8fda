package tenant

import (
	"context"
	"errors"
	"fmt"

	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/pkg/metrics"
	"schoolhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Resolver maps a session user to its tenant: profile -> tenant reference -> tenant row.
type Resolver struct {
	factory unitofwork.RepositoryFactory
	logger  logger.ILogger
	metrics *metrics.TenantMetrics
}

func NewResolver(factory unitofwork.RepositoryFactory, log logger.ILogger, m *metrics.TenantMetrics) *Resolver {
	return &Resolver{factory: factory, logger: log, metrics: m}
}

// Resolve returns ErrNotFound when the user has no tenant and *ResolutionError
// for any other failure. It has no side effects.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (t *entity.Tenant, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			t = nil
			err = &ResolutionError{UserID: userID, Err: fmt.Errorf("panic: %v", rec)}
		}
		r.record(err)
	}()

	uow := r.factory.NewUnitOfWork(ctx)

	profile, err := uow.ProfileRepository().FindByUserID(ctx, userID)
	if err != nil {
		return nil, &ResolutionError{UserID: userID, Err: fmt.Errorf("find profile: %w", err)}
	}
	if profile == nil || profile.TenantId == nil {
		return nil, ErrNotFound
	}

	t, err = uow.TenantRepository().FindByID(ctx, *profile.TenantId)
	if err != nil {
		return nil, &ResolutionError{UserID: userID, Err: fmt.Errorf("find tenant: %w", err)}
	}
	if t == nil {
		r.logger.Warn("TENANT_RESOLVER", "Profile references a missing tenant", map[string]interface{}{
			"user_id":   userID.String(),
			"tenant_id": profile.TenantId.String(),
		})
		return nil, ErrNotFound
	}
	return t, nil
}

func (r *Resolver) record(err error) {
	switch {
	case err == nil:
		r.metrics.Resolution("found")
	case errors.Is(err, ErrNotFound):
		r.metrics.Resolution("not_found")
	default:
		r.metrics.Resolution("failed")
	}
}
