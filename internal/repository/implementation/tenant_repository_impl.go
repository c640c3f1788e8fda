// FILE: internal/repository/implementation/tenant_repository_impl.go
// Implementation of TenantRepository
package implementation

import (
	"context"
	"errors"
	"time"

	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/mapper"
	"schoolhub-be/internal/model"
	"schoolhub-be/internal/repository/contract"
	"schoolhub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TenantMapper
}

func NewTenantRepository(db *gorm.DB) contract.TenantRepository {
	return &TenantRepositoryImpl{
		db:     db,
		mapper: mapper.NewTenantMapper(),
	}
}

func (r *TenantRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TenantRepositoryImpl) Create(ctx context.Context, tenant *entity.Tenant) error {
	m := r.mapper.ToModel(tenant)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*tenant = *r.mapper.ToEntity(m)
	return nil
}

func (r *TenantRepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, patch entity.TenantPatch) error {
	cols := r.mapper.PatchColumns(patch)
	if len(cols) == 0 {
		return nil
	}
	cols["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&model.Tenant{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *TenantRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *TenantRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	return r.findOne(ctx, specification.BySlug{Slug: slug})
}

func (r *TenantRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Tenant, error) {
	var m model.Tenant
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
