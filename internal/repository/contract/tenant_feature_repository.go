// FILE: internal/repository/contract/tenant_feature_repository.go
// Repository interface for per-tenant feature rows
package contract

import (
	"context"

	"schoolhub-be/internal/entity"

	"github.com/google/uuid"
)

type TenantFeatureRepository interface {
	CreateBatch(ctx context.Context, features []*entity.TenantFeature) error
	// Upsert inserts the row or, on (tenant_id, feature_key) conflict, rewrites
	// is_enabled only. feature is refreshed with the stored row.
	Upsert(ctx context.Context, feature *entity.TenantFeature) error
	FindByTenantID(ctx context.Context, tenantId uuid.UUID) ([]*entity.TenantFeature, error)
}
