package onboarding

import (
	"context"
	"errors"
	"testing"

	"schoolhub-be/internal/constant"
	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/repository/contract"
	"schoolhub-be/internal/repository/memory"
	"schoolhub-be/internal/repository/unitofwork"
	"schoolhub-be/pkg/tenant"
	"schoolhub-be/pkg/theme"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// brokenBatchFactory fails the feature write, after tenant and profile
// writes already succeeded inside the transaction.
type brokenBatchFactory struct {
	unitofwork.RepositoryFactory
}

func (f brokenBatchFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return brokenBatchUoW{UnitOfWork: f.RepositoryFactory.NewUnitOfWork(ctx)}
}

type brokenBatchUoW struct {
	unitofwork.UnitOfWork
}

func (u brokenBatchUoW) TenantFeatureRepository() contract.TenantFeatureRepository {
	return brokenBatchRepo{TenantFeatureRepository: u.UnitOfWork.TenantFeatureRepository()}
}

type brokenBatchRepo struct {
	contract.TenantFeatureRepository
}

func (brokenBatchRepo) CreateBatch(context.Context, []*entity.TenantFeature) error {
	return errors.New("statement timeout")
}

func newCompleter(factory unitofwork.RepositoryFactory, catalog constant.Catalog) *Completer {
	return NewCompleter(factory, catalog, theme.DefaultPalette, logger.NewNopLogger(), nil)
}

func completeWizard(t *testing.T, w *Wizard, info Info, features ...constant.FeatureKey) error {
	t.Helper()
	require.NoError(t, w.SetInfo(info))
	for i := 0; i < 3; i++ {
		_, err := w.Next(context.Background())
		require.NoError(t, err)
	}
	require.NoError(t, w.SetFeatures(features))
	_, err := w.Next(context.Background())
	return err
}

func TestOnboardingWritesOneRowPerCatalogKey(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewRepositoryFactory(memory.NewDatabase())
	catalog := constant.DefaultCatalog[:10]
	userID := uuid.New()

	w := NewWizard(userID, catalog, newCompleter(factory, catalog))
	err := completeWizard(t, w, validInfo(), constant.FeatureAttendanceManagement, constant.FeatureFeeManagement)
	require.NoError(t, err)
	require.Equal(t, StepComplete, w.Step())

	created := w.Tenant()
	rows, err := factory.NewUnitOfWork(ctx).TenantFeatureRepository().FindByTenantID(ctx, created.Id)
	require.NoError(t, err)
	assert.Len(t, rows, 10)

	enabled := map[string]bool{}
	for _, row := range rows {
		if row.IsEnabled {
			enabled[row.FeatureKey] = true
		}
	}
	assert.Equal(t, map[string]bool{"attendanceManagement": true, "feeManagement": true}, enabled)

	profile, err := factory.NewUnitOfWork(ctx).ProfileRepository().FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, created.Id, *profile.TenantId)
}

func TestOnboardingAppliesDefaults(t *testing.T) {
	factory := memory.NewRepositoryFactory(memory.NewDatabase())
	w := NewWizard(uuid.New(), nil, newCompleter(factory, nil))

	require.NoError(t, completeWizard(t, w, validInfo(), constant.FeatureStudentPortal))
	created := w.Tenant()

	assert.Equal(t, entity.TenantStatusTrial, created.Status)
	assert.Equal(t, entity.TenantPlanBasic, created.Plan)
	assert.Equal(t, "#3B82F6", created.PrimaryColor)
	assert.Equal(t, "#10B981", created.SecondaryColor)
	assert.Equal(t, "#F59E0B", created.AccentColor)
	assert.Equal(t, "Inter", created.FontFamily)
	assert.Equal(t, "a@b.com", created.Email)
	assert.Equal(t, "UTC", created.Timezone)
	assert.Equal(t, "en", created.Language)
	assert.Equal(t, "USD", created.Currency)
}

func TestSecondOnboardingWithSameSlugFails(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewRepositoryFactory(memory.NewDatabase())

	first := NewWizard(uuid.New(), nil, newCompleter(factory, nil))
	require.NoError(t, completeWizard(t, first, validInfo(), constant.FeatureFeeManagement))

	secondUser := uuid.New()
	second := NewWizard(secondUser, nil, newCompleter(factory, nil))
	err := completeWizard(t, second, validInfo(), constant.FeatureFeeManagement)

	var uerr *tenant.UpdateError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, OpComplete, uerr.Op)
	assert.ErrorIs(t, err, contract.ErrDuplicateKey)
	assert.Equal(t, StepFeatures, second.Step())

	profile, err := factory.NewUnitOfWork(ctx).ProfileRepository().FindByUserID(ctx, secondUser)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestFailedFeatureWriteLeavesNoOrphanTenant(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewRepositoryFactory(memory.NewDatabase())
	userID := uuid.New()

	w := NewWizard(userID, nil, newCompleter(brokenBatchFactory{RepositoryFactory: inner}, nil))
	err := completeWizard(t, w, validInfo(), constant.FeatureOnlineExams)

	var uerr *tenant.UpdateError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, StepFeatures, w.Step())

	uow := inner.NewUnitOfWork(ctx)
	orphan, err := uow.TenantRepository().FindBySlug(ctx, "green-valley-high")
	require.NoError(t, err)
	assert.Nil(t, orphan)

	profile, err := uow.ProfileRepository().FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, profile)

	// The slug is still free, so a retry with a healthy store succeeds.
	retry := NewWizard(userID, nil, newCompleter(inner, nil))
	assert.NoError(t, completeWizard(t, retry, validInfo(), constant.FeatureOnlineExams))
}

func TestCompletionLogCountsWrittenRowsOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	factory := memory.NewRepositoryFactory(memory.NewDatabase())
	catalog := constant.Catalog{constant.FeatureAttendanceManagement, constant.FeatureFeeManagement}
	c := NewCompleter(factory, catalog, theme.DefaultPalette, logger.NewFromZap(zap.New(core)), nil)

	_, err := c.Finish(context.Background(), uuid.New(), Draft{
		Info:      validInfo(),
		Selection: Selection{Features: []string{
			string(constant.FeatureFeeManagement),
			string(constant.FeatureOnlineExams),
		}},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("Tenant created").All()
	require.Len(t, entries, 1)
	details, ok := entries[0].ContextMap()["details"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, details["enabled"])
}
