package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/repository/contract"

	"github.com/google/uuid"
)

type tenantRepository struct {
	scope scope
}

func (r *tenantRepository) Create(ctx context.Context, tenant *entity.Tenant) error {
	return r.scope.write(func(s *state) error {
		if _, taken := s.slugs[tenant.Slug]; taken {
			return fmt.Errorf("%w: idx_tenants_slug", contract.ErrDuplicateKey)
		}
		if tenant.Id == uuid.Nil {
			tenant.Id = uuid.New()
		}
		if _, exists := s.tenants[tenant.Id]; exists {
			return fmt.Errorf("%w: tenants_pkey", contract.ErrDuplicateKey)
		}
		now := time.Now()
		if tenant.CreatedAt.IsZero() {
			tenant.CreatedAt = now
		}
		tenant.UpdatedAt = now

		s.tenants[tenant.Id] = tenant.Clone()
		s.slugs[tenant.Slug] = tenant.Id
		return nil
	})
}

func (r *tenantRepository) UpdateFields(ctx context.Context, id uuid.UUID, patch entity.TenantPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	return r.scope.write(func(s *state) error {
		current, ok := s.tenants[id]
		if !ok {
			return contract.ErrNotFound
		}
		updated := current.Clone()
		patch.ApplyTo(updated)
		updated.UpdatedAt = time.Now()
		s.tenants[id] = updated
		return nil
	})
}

func (r *tenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	var found *entity.Tenant
	err := r.scope.read(func(s *state) error {
		if t, ok := s.tenants[id]; ok {
			found = t.Clone()
		}
		return nil
	})
	return found, err
}

func (r *tenantRepository) FindBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	var found *entity.Tenant
	err := r.scope.read(func(s *state) error {
		if id, ok := s.slugs[slug]; ok {
			found = s.tenants[id].Clone()
		}
		return nil
	})
	return found, err
}

type tenantFeatureRepository struct {
	scope scope
}

func (r *tenantFeatureRepository) CreateBatch(ctx context.Context, features []*entity.TenantFeature) error {
	if len(features) == 0 {
		return nil
	}
	return r.scope.write(func(s *state) error {
		now := time.Now()
		staged := make(map[string]bool, len(features))
		for _, f := range features {
			pair := f.TenantId.String() + "/" + f.FeatureKey
			if staged[pair] || s.featureExists(f.TenantId, f.FeatureKey) {
				return fmt.Errorf("%w: idx_tenant_features_tenant_key", contract.ErrDuplicateKey)
			}
			staged[pair] = true
		}
		for _, f := range features {
			if f.Id == uuid.Nil {
				f.Id = uuid.New()
			}
			if f.CreatedAt.IsZero() {
				f.CreatedAt = now
			}
			if f.Config == nil {
				f.Config = map[string]interface{}{}
			}
			s.putFeature(f.Clone())
		}
		return nil
	})
}

func (r *tenantFeatureRepository) Upsert(ctx context.Context, feature *entity.TenantFeature) error {
	return r.scope.write(func(s *state) error {
		if rows, ok := s.features[feature.TenantId]; ok {
			if existing, ok := rows[feature.FeatureKey]; ok {
				updated := existing.Clone()
				updated.IsEnabled = feature.IsEnabled
				rows[feature.FeatureKey] = updated
				*feature = *updated.Clone()
				return nil
			}
		}
		inserted := feature.Clone()
		if inserted.Id == uuid.Nil {
			inserted.Id = uuid.New()
		}
		if inserted.CreatedAt.IsZero() {
			inserted.CreatedAt = time.Now()
		}
		if inserted.Config == nil {
			inserted.Config = map[string]interface{}{}
		}
		s.putFeature(inserted)
		*feature = *inserted.Clone()
		return nil
	})
}

func (r *tenantFeatureRepository) FindByTenantID(ctx context.Context, tenantId uuid.UUID) ([]*entity.TenantFeature, error) {
	var result []*entity.TenantFeature
	err := r.scope.read(func(s *state) error {
		rows := s.features[tenantId]
		result = make([]*entity.TenantFeature, 0, len(rows))
		for _, f := range rows {
			result = append(result, f.Clone())
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].FeatureKey < result[j].FeatureKey
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, err
}

func (s *state) featureExists(tenantId uuid.UUID, key string) bool {
	rows, ok := s.features[tenantId]
	if !ok {
		return false
	}
	_, ok = rows[key]
	return ok
}

func (s *state) putFeature(f *entity.TenantFeature) {
	rows, ok := s.features[f.TenantId]
	if !ok {
		rows = make(map[string]*entity.TenantFeature)
		s.features[f.TenantId] = rows
	}
	rows[f.FeatureKey] = f
}

type profileRepository struct {
	scope scope
}

func (r *profileRepository) FindByUserID(ctx context.Context, userId uuid.UUID) (*entity.Profile, error) {
	var found *entity.Profile
	err := r.scope.read(func(s *state) error {
		if p, ok := s.profiles[userId]; ok {
			cp := *p
			found = &cp
		}
		return nil
	})
	return found, err
}

func (r *profileRepository) AttachTenant(ctx context.Context, userId uuid.UUID, tenantId uuid.UUID) error {
	return r.scope.write(func(s *state) error {
		if _, ok := s.tenants[tenantId]; !ok {
			return fmt.Errorf("profiles.tenant_id references unknown tenant %s", tenantId)
		}
		now := time.Now()
		tid := tenantId
		if p, ok := s.profiles[userId]; ok {
			cp := *p
			cp.TenantId = &tid
			cp.UpdatedAt = now
			s.profiles[userId] = &cp
			return nil
		}
		s.profiles[userId] = &entity.Profile{
			UserId:    userId,
			TenantId:  &tid,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil
	})
}
