package unitofwork

import (
	"context"

	"schoolhub-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TenantRepository() contract.TenantRepository
	TenantFeatureRepository() contract.TenantFeatureRepository
	ProfileRepository() contract.ProfileRepository
}
