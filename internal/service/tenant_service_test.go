package service

import (
	"context"
	"testing"

	"schoolhub-be/internal/dto"
	"schoolhub-be/internal/entity"
	"schoolhub-be/pkg/settings"
	"schoolhub-be/pkg/tenant"
	"schoolhub-be/pkg/theme"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenantService(e *env) ITenantService {
	return NewTenantService(e.sessions, e.theme, e.notifier, e.log)
}

func validSettings() *dto.TenantSettingsRequest {
	return &dto.TenantSettingsRequest{
		Name:           "Green Valley Academy",
		PrimaryColor:   "#3B82F6",
		SecondaryColor: "#10B981",
		AccentColor:    "#F59E0B",
		FontFamily:     "Poppins",
		Currency:       "EUR",
	}
}

func TestContextRequiresOnboarding(t *testing.T) {
	e := newEnv(t)
	_, err := newTenantService(e).Context(context.Background(), uuid.New())
	assert.ErrorIs(t, err, tenant.ErrNotFound)
}

func TestContextReturnsTenantFeaturesAndTheme(t *testing.T) {
	e := newEnv(t)
	userID, created := e.seed(t, "green-valley", "feeManagement", "studentPortal")

	resp, err := newTenantService(e).Context(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, created.Id, resp.Tenant.Id)
	assert.Len(t, resp.Features, 14)
	assert.Equal(t, "attendanceManagement", resp.Features[0].Key)
	assert.Equal(t, "Attendance Management", resp.Features[0].Name)
	assert.Equal(t, []string{"feeManagement", "studentPortal"}, resp.EnabledKeys)

	require.NotNil(t, resp.Theme)
	assert.Equal(t, "0 100% 50%", resp.Theme.Variables[theme.VarPrimary])
	assert.Contains(t, resp.Theme.CSS, "--primary: 0 100% 50%;")
}

func TestUpdateSettingsSavesAndNotifies(t *testing.T) {
	e := newEnv(t)
	userID, _ := e.seed(t, "green-valley", "feeManagement")
	svc := newTenantService(e)

	resp, err := svc.UpdateSettings(context.Background(), userID, validSettings())
	require.NoError(t, err)
	assert.Equal(t, "Green Valley Academy", resp.Settings.Name)
	assert.False(t, resp.Dirty)

	session, err := e.sessions.Open(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Poppins", session.Store.Tenant().FontFamily)

	toasts := e.notifier.For(userID)
	require.Len(t, toasts, 1)
	assert.Equal(t, dto.ToastSuccess, toasts[0].Level)
}

func TestUpdateSettingsRejectsInvalidColor(t *testing.T) {
	e := newEnv(t)
	userID, _ := e.seed(t, "green-valley", "feeManagement")

	req := validSettings()
	req.AccentColor = "orange"
	_, err := newTenantService(e).UpdateSettings(context.Background(), userID, req)

	var verr *settings.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "accent_color")
	assert.Empty(t, e.notifier.For(userID))
}

func TestResetSettingsRestoresSnapshot(t *testing.T) {
	e := newEnv(t)
	userID, _ := e.seed(t, "green-valley", "feeManagement")
	svc := newTenantService(e)

	session, err := e.sessions.Open(context.Background(), userID)
	require.NoError(t, err)
	require.NoError(t, session.Panel.Edit(func(d *settings.Draft) { d.Name = "Scratch" }))

	resp, err := svc.ResetSettings(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Green Valley High", resp.Settings.Name)
	assert.False(t, resp.Dirty)
}

func TestToggleFeature(t *testing.T) {
	e := newEnv(t)
	userID, _ := e.seed(t, "green-valley", "feeManagement")
	svc := newTenantService(e)

	resp, err := svc.ToggleFeature(context.Background(), userID, "onlineExams", true)
	require.NoError(t, err)
	assert.True(t, resp.IsEnabled)
	assert.Equal(t, map[string]interface{}{}, resp.Config)

	toasts := e.notifier.For(userID)
	require.Len(t, toasts, 1)
	assert.Equal(t, "Feature enabled", toasts[0].Title)
	assert.Equal(t, "Online Exams", toasts[0].Message)
}

func TestToggleUnknownFeatureIsValidationError(t *testing.T) {
	e := newEnv(t)
	userID, _ := e.seed(t, "green-valley", "feeManagement")

	_, err := newTenantService(e).ToggleFeature(context.Background(), userID, "spaceProgram", true)

	require.ErrorIs(t, err, tenant.ErrUnknownFeature)
	assert.True(t, tenant.IsValidation(err))
	assert.Empty(t, e.notifier.For(userID))
}

func TestGetFeatureDefaultDeny(t *testing.T) {
	e := newEnv(t)
	userID, _ := e.seed(t, "green-valley", "feeManagement")
	svc := newTenantService(e)

	known, err := svc.GetFeature(context.Background(), userID, "feeManagement")
	require.NoError(t, err)
	assert.True(t, known.IsEnabled)

	unknown, err := svc.GetFeature(context.Background(), userID, "spaceProgram")
	require.NoError(t, err)
	assert.False(t, unknown.IsEnabled)
	assert.Empty(t, unknown.Config)
}

func TestThemeUsesAppliedVariables(t *testing.T) {
	e := newEnv(t)
	userID, created := e.seed(t, "green-valley", "feeManagement")

	applied, err := e.theme.ApplyTheme(context.Background(), created)
	require.NoError(t, err)

	resp, err := newTenantService(e).Theme(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, applied.Map(), resp.Variables)
}

func TestThemeReappliesStaleBranding(t *testing.T) {
	e := newEnv(t)
	userID, created := e.seed(t, "green-valley", "feeManagement")
	svc := newTenantService(e)

	_, err := e.theme.ApplyTheme(context.Background(), created)
	require.NoError(t, err)

	// No consumer runs here, so the surface still holds the old branding.
	_, err = svc.UpdateSettings(context.Background(), userID, validSettings())
	require.NoError(t, err)

	resp, err := svc.Theme(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "217 91% 60%", resp.Variables[theme.VarPrimary])
	assert.Equal(t, "Poppins", resp.Variables[theme.VarFontFamily])

	stored, ok, err := e.surface.Get(context.Background(), created.Id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Poppins", stored.FontFamily)
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	e := newEnv(t)
	userID, created := e.seed(t, "green-valley", "feeManagement")
	svc := newTenantService(e)

	_, err := svc.Context(context.Background(), userID)
	require.NoError(t, err)

	name := "Renamed Elsewhere"
	uow := e.factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.TenantRepository().UpdateFields(context.Background(), created.Id, entity.TenantPatch{Name: &name}))

	resp, err := svc.Reload(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, name, resp.Tenant.Name)
}
