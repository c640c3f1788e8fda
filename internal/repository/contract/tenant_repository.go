// FILE: internal/repository/contract/tenant_repository.go
// Repository interfaces for tenants and profiles
package contract

import (
	"context"

	"schoolhub-be/internal/entity"

	"github.com/google/uuid"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	// UpdateFields writes only the columns present in patch.
	UpdateFields(ctx context.Context, id uuid.UUID, patch entity.TenantPatch) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userId uuid.UUID) (*entity.Profile, error)
	// AttachTenant points the user's profile at tenantId, creating the profile if needed.
	AttachTenant(ctx context.Context, userId uuid.UUID, tenantId uuid.UUID) error
}
