// FILE: internal/repository/implementation/tenant_feature_repository_impl.go
// Implementation of TenantFeatureRepository
package implementation

import (
	"context"

	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/mapper"
	"schoolhub-be/internal/model"
	"schoolhub-be/internal/repository/contract"
	"schoolhub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TenantFeatureRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TenantFeatureMapper
}

func NewTenantFeatureRepository(db *gorm.DB) contract.TenantFeatureRepository {
	return &TenantFeatureRepositoryImpl{
		db:     db,
		mapper: mapper.NewTenantFeatureMapper(),
	}
}

func (r *TenantFeatureRepositoryImpl) CreateBatch(ctx context.Context, features []*entity.TenantFeature) error {
	if len(features) == 0 {
		return nil
	}
	models := make([]*model.TenantFeature, 0, len(features))
	for _, f := range features {
		m := r.mapper.ToModel(f)
		if m.Id == uuid.Nil {
			m.Id = uuid.New()
		}
		models = append(models, m)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return translateError(err)
	}
	for i, m := range models {
		*features[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *TenantFeatureRepositoryImpl) Upsert(ctx context.Context, feature *entity.TenantFeature) error {
	m := r.mapper.ToModel(feature)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "feature_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_enabled"}),
	}).Create(m).Error
	if err != nil {
		return translateError(err)
	}

	// On conflict the generated id is discarded; read back the stored row.
	var stored model.TenantFeature
	query := r.db.WithContext(ctx)
	query = specification.ByTenantID{TenantID: feature.TenantId}.Apply(query)
	query = specification.ByFeatureKey{Key: feature.FeatureKey}.Apply(query)
	if err := query.First(&stored).Error; err != nil {
		return err
	}
	*feature = *r.mapper.ToEntity(&stored)
	return nil
}

func (r *TenantFeatureRepositoryImpl) FindByTenantID(ctx context.Context, tenantId uuid.UUID) ([]*entity.TenantFeature, error) {
	var models []*model.TenantFeature
	query := specification.ByTenantID{TenantID: tenantId}.Apply(r.db.WithContext(ctx))
	query = specification.OrderBy{Field: "created_at"}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
