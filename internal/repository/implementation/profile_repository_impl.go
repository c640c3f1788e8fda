// FILE: internal/repository/implementation/profile_repository_impl.go
// Implementation of ProfileRepository
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
	"gorm.io/gorm/clause"
)

type ProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TenantMapper
}

func NewProfileRepository(db *gorm.DB) contract.ProfileRepository {
	return &ProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewTenantMapper(),
	}
}

func (r *ProfileRepositoryImpl) FindByUserID(ctx context.Context, userId uuid.UUID) (*entity.Profile, error) {
	var m model.Profile
	query := specification.ByUserID{UserID: userId}.Apply(r.db.WithContext(ctx))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProfileToEntity(&m), nil
}

func (r *ProfileRepositoryImpl) AttachTenant(ctx context.Context, userId uuid.UUID, tenantId uuid.UUID) error {
	now := time.Now()
	m := &model.Profile{
		UserId:    userId,
		TenantId:  &tenantId,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tenant_id", "updated_at"}),
	}).Create(m).Error
	return translateError(err)
}
