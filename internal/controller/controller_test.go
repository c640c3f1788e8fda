package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"schoolhub-be/internal/dto"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/pkg/serverutils"
	"schoolhub-be/internal/repository/contract"
	"schoolhub-be/internal/service"
	"schoolhub-be/pkg/onboarding"
	"schoolhub-be/pkg/settings"
	"schoolhub-be/pkg/tenant"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type fakeTenantService struct {
	err        error
	gotUser    uuid.UUID
	gotKey     string
	gotEnabled bool
	gotReq     *dto.TenantSettingsRequest
}

func (f *fakeTenantService) Context(_ context.Context, userID uuid.UUID) (*dto.TenantContextResponse, error) {
	f.gotUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.TenantContextResponse{Tenant: &dto.TenantResponse{Slug: "green-valley"}, EnabledKeys: []string{"feeManagement"}}, nil
}

func (f *fakeTenantService) Reload(ctx context.Context, userID uuid.UUID) (*dto.TenantContextResponse, error) {
	return f.Context(ctx, userID)
}

func (f *fakeTenantService) GetSettings(context.Context, uuid.UUID) (*dto.TenantSettingsResponse, error) {
	return &dto.TenantSettingsResponse{}, f.err
}

func (f *fakeTenantService) UpdateSettings(_ context.Context, _ uuid.UUID, req *dto.TenantSettingsRequest) (*dto.TenantSettingsResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.TenantSettingsResponse{Settings: *req}, nil
}

func (f *fakeTenantService) ResetSettings(context.Context, uuid.UUID) (*dto.TenantSettingsResponse, error) {
	return &dto.TenantSettingsResponse{}, f.err
}

func (f *fakeTenantService) GetFeature(_ context.Context, _ uuid.UUID, key string) (*dto.FeatureFlagResponse, error) {
	f.gotKey = key
	return &dto.FeatureFlagResponse{Key: key}, f.err
}

func (f *fakeTenantService) ToggleFeature(_ context.Context, _ uuid.UUID, key string, enabled bool) (*dto.FeatureFlagResponse, error) {
	f.gotKey, f.gotEnabled = key, enabled
	if f.err != nil {
		return nil, f.err
	}
	return &dto.FeatureFlagResponse{Key: key, IsEnabled: enabled}, nil
}

func (f *fakeTenantService) Theme(context.Context, uuid.UUID) (*dto.ThemeResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ThemeResponse{Variables: map[string]string{"--primary": "0 100% 50%"}, CSS: ":root {\n  --primary: 0 100% 50%;\n}\n"}, nil
}

func newTestApp(svc service.ITenantService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.NewErrorHandler(logger.NewNopLogger())})
	NewTenantController(svc, serverutils.NewJwtMiddleware(secret)).RegisterRoutes(app.Group("/api"))
	return app
}

func authed(t *testing.T, method, path, body string) (*http.Request, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := serverutils.SignToken(secret, userID)
	require.NoError(t, err)

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, userID
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestShowRequiresToken(t *testing.T) {
	resp, err := newTestApp(&fakeTenantService{}).Test(httptest.NewRequest("GET", "/api/tenant", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestShowReturnsContext(t *testing.T) {
	svc := &fakeTenantService{}
	req, userID := authed(t, "GET", "/api/tenant", "")

	resp, err := newTestApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, svc.gotUser)

	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "green-valley", body["data"].(map[string]interface{})["tenant"].(map[string]interface{})["slug"])
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"not found", tenant.ErrNotFound, 404, ReasonOnboardingRequired},
		{"no tenant", &tenant.UpdateError{Op: tenant.OpUpdateTenant, Err: tenant.ErrNoTenant}, 404, ReasonOnboardingRequired},
		{"resolution", &tenant.ResolutionError{Err: errors.New("timeout")}, 503, ReasonResolutionFailed},
		{"bad color", &tenant.UpdateError{Op: tenant.OpUpdateTenant, Err: fmt.Errorf("%w: accent", tenant.ErrInvalidColor)}, 422, ReasonInvalid},
		{"unknown feature", &tenant.UpdateError{Op: tenant.OpToggleFeature, Err: tenant.ErrUnknownFeature}, 422, ReasonInvalid},
		{"duplicate", &tenant.UpdateError{Op: onboarding.OpComplete, Err: fmt.Errorf("%w: slug", contract.ErrDuplicateKey)}, 409, ReasonDuplicateSlug},
		{"store down", &tenant.UpdateError{Op: tenant.OpUpdateTenant, Err: errors.New("connection refused")}, 502, ReasonUpdateFailed},
		{"save in flight", settings.ErrSaveInProgress, 409, ReasonSaveInProgress},
		{"draft invalid", &settings.ValidationError{Fields: map[string]string{"name": "is required"}}, 422, ReasonInvalid},
		{"step invalid", &onboarding.StepError{Step: onboarding.StepInfo, Fields: map[string]string{"slug": "is required"}}, 422, ReasonInvalid},
		{"already onboarded", service.ErrAlreadyOnboarded, 409, ReasonAlreadyOnboarded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := authed(t, "GET", "/api/tenant", "")
			resp, err := newTestApp(&fakeTenantService{err: tt.err}).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.reason, decode(t, resp)["reason"])
		})
	}
}

func TestUnknownErrorIs500(t *testing.T) {
	req, _ := authed(t, "GET", "/api/tenant", "")
	resp, err := newTestApp(&fakeTenantService{err: errors.New("boom")}).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestUpdateSettingsValidatesBody(t *testing.T) {
	svc := &fakeTenantService{}
	req, _ := authed(t, "PUT", "/api/tenant/settings", `{"name":"","primary_color":"red"}`)

	resp, err := newTestApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	errs := decode(t, resp)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "primary_color")
	assert.Nil(t, svc.gotReq)
}

func TestToggleFeature(t *testing.T) {
	svc := &fakeTenantService{}
	req, _ := authed(t, "PUT", "/api/tenant/features/onlineExams", `{"enabled":true}`)

	resp, err := newTestApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "onlineExams", svc.gotKey)
	assert.True(t, svc.gotEnabled)
}

func TestToggleFeatureRequiresEnabled(t *testing.T) {
	req, _ := authed(t, "PUT", "/api/tenant/features/onlineExams", `{}`)
	resp, err := newTestApp(&fakeTenantService{}).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestThemeAsCSS(t *testing.T) {
	req, _ := authed(t, "GET", "/api/tenant/theme", "")
	req.Header.Set("Accept", "text/plain")

	resp, err := newTestApp(&fakeTenantService{}).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "--primary: 0 100% 50%;")
}
