package tenant

import (
	"context"
	"sync"
	"testing"

	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/repository/contract"
	"schoolhub-be/internal/repository/memory"
	"schoolhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recordingPublisher) Publish(_ context.Context, c Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
	return nil
}

func (r *recordingPublisher) all() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}

// faultyFactory wraps a factory and injects repository failures.
type faultyFactory struct {
	inner        unitofwork.RepositoryFactory
	profileErr   error
	tenantErr    error
	featureErr   error
	featureReads error
	panicOnRead  bool
	blockWrites  bool
	hideTenants  bool
}

func (f *faultyFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &faultyUoW{UnitOfWork: f.inner.NewUnitOfWork(ctx), f: f}
}

type faultyUoW struct {
	unitofwork.UnitOfWork
	f *faultyFactory
}

func (u *faultyUoW) ProfileRepository() contract.ProfileRepository {
	return &faultyProfiles{ProfileRepository: u.UnitOfWork.ProfileRepository(), f: u.f}
}

func (u *faultyUoW) TenantRepository() contract.TenantRepository {
	return &faultyTenants{TenantRepository: u.UnitOfWork.TenantRepository(), f: u.f}
}

func (u *faultyUoW) TenantFeatureRepository() contract.TenantFeatureRepository {
	return &faultyFeatures{TenantFeatureRepository: u.UnitOfWork.TenantFeatureRepository(), f: u.f}
}

type faultyProfiles struct {
	contract.ProfileRepository
	f *faultyFactory
}

func (r *faultyProfiles) FindByUserID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if r.f.panicOnRead {
		panic("driver exploded")
	}
	if r.f.profileErr != nil {
		return nil, r.f.profileErr
	}
	return r.ProfileRepository.FindByUserID(ctx, id)
}

type faultyTenants struct {
	contract.TenantRepository
	f *faultyFactory
}

func (r *faultyTenants) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	if r.f.hideTenants {
		return nil, nil
	}
	return r.TenantRepository.FindByID(ctx, id)
}

func (r *faultyTenants) UpdateFields(ctx context.Context, id uuid.UUID, patch entity.TenantPatch) error {
	if r.f.blockWrites {
		<-ctx.Done()
		return ctx.Err()
	}
	if r.f.tenantErr != nil {
		return r.f.tenantErr
	}
	return r.TenantRepository.UpdateFields(ctx, id, patch)
}

type faultyFeatures struct {
	contract.TenantFeatureRepository
	f *faultyFactory
}

func (r *faultyFeatures) Upsert(ctx context.Context, feature *entity.TenantFeature) error {
	if r.f.featureErr != nil {
		return r.f.featureErr
	}
	return r.TenantFeatureRepository.Upsert(ctx, feature)
}

func (r *faultyFeatures) FindByTenantID(ctx context.Context, id uuid.UUID) ([]*entity.TenantFeature, error) {
	if r.f.featureReads != nil {
		return nil, r.f.featureReads
	}
	return r.TenantFeatureRepository.FindByTenantID(ctx, id)
}

type fixture struct {
	factory   *faultyFactory
	publisher *recordingPublisher
	deps      Deps
	tenant    *entity.Tenant
	userID    uuid.UUID
}

// newFixture seeds one tenant owned by a fresh user, with the given rows.
func newFixture(t *testing.T, rows ...*entity.TenantFeature) *fixture {
	t.Helper()
	ctx := context.Background()

	factory := &faultyFactory{inner: memory.NewRepositoryFactory(memory.NewDatabase())}
	uow := factory.inner.NewUnitOfWork(ctx)

	tn := &entity.Tenant{
		Slug:           "green-valley",
		Name:           "Green Valley High",
		Status:         entity.TenantStatusActive,
		Plan:           entity.TenantPlanPremium,
		PrimaryColor:   "#3B82F6",
		SecondaryColor: "#10B981",
		AccentColor:    "#F59E0B",
		FontFamily:     "Inter",
		Email:          "office@greenvalley.edu",
		Timezone:       "UTC",
		Language:       "en",
		Currency:       "USD",
	}
	require.NoError(t, uow.TenantRepository().Create(ctx, tn))

	userID := uuid.New()
	require.NoError(t, uow.ProfileRepository().AttachTenant(ctx, userID, tn.Id))

	for _, r := range rows {
		r.TenantId = tn.Id
	}
	require.NoError(t, uow.TenantFeatureRepository().CreateBatch(ctx, rows))

	publisher := &recordingPublisher{}
	log := logger.NewNopLogger()
	return &fixture{
		factory:   factory,
		publisher: publisher,
		tenant:    tn,
		userID:    userID,
		deps: Deps{
			Resolver:  NewResolver(factory, log, nil),
			Factory:   factory,
			Gate:      NewMutationGate(),
			Publisher: publisher,
			Logger:    log,
		},
	}
}

func (f *fixture) loadedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(f.userID, f.deps)
	require.NoError(t, s.Load(context.Background()))
	return s
}
