package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"schoolhub-be/internal/bootstrap"
	"schoolhub-be/internal/config"
	"schoolhub-be/internal/pkg/serverutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "integration-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "app.log"),
			WsLogFilePath:      filepath.Join(dir, "ws.log"),
			CorsAllowedOrigins: "*",
			InstanceID:         "test",
		},
		Auth: config.AuthConfig{JWTSecret: secret},
		Tenant: config.TenantConfig{
			StorageDriver:   "memory",
			ThemeSurface:    "memory",
			SessionTTL:      time.Minute,
			MutationTimeout: time.Second,
			ChangeTopic:     "tenant.changes",
			PrimaryColor:    "#3B82F6",
			SecondaryColor:  "#10B981",
			AccentColor:     "#F59E0B",
			FontFamily:      "Inter",
		},
	}

	container := bootstrap.NewContainer(nil, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		container.Close()
	})
	require.NoError(t, container.Start(ctx))
	return New(cfg, container)
}

type client struct {
	t     *testing.T
	srv   *Server
	token string
}

func (c *client) do(method, path, body string) (int, map[string]interface{}) {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.srv.GetApp().Test(req, 5000)
	require.NoError(c.t, err)
	var out map[string]interface{}
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestOnboardingThenTenantContext(t *testing.T) {
	srv := newTestServer(t)
	token, err := serverutils.SignToken(secret, uuid.New())
	require.NoError(t, err)
	c := &client{t: t, srv: srv, token: token}

	status, body := c.do("GET", "/api/tenant", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ONBOARDING_REQUIRED", body["reason"])

	status, _ = c.do("PUT", "/api/onboarding/step", `{"info":{"name":"Hilltop College","contact_email":"admin@hilltop.edu"},"branding":{"primary_color":"#FF0000"}}`)
	require.Equal(t, http.StatusOK, status)

	for i := 0; i < 3; i++ {
		status, _ = c.do("POST", "/api/onboarding/next", "")
		require.Equal(t, http.StatusOK, status)
	}
	status, _ = c.do("POST", "/api/onboarding/preset/standard", "")
	require.Equal(t, http.StatusOK, status)

	status, body = c.do("POST", "/api/onboarding/next", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Complete", body["data"].(map[string]interface{})["step"])

	status, body = c.do("GET", "/api/tenant", "")
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "hilltop-college", data["tenant"].(map[string]interface{})["slug"])
	assert.Len(t, data["enabled_keys"], 8)
	assert.Len(t, data["features"], 14)

	status, body = c.do("GET", "/api/tenant/theme", "")
	require.Equal(t, http.StatusOK, status)
	vars := body["data"].(map[string]interface{})["variables"].(map[string]interface{})
	assert.Equal(t, "0 100% 50%", vars["--primary"])

	status, body = c.do("PUT", "/api/tenant/features/hostelManagement", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]interface{})["is_enabled"])

	status, body = c.do("PUT", "/api/tenant/features/spaceProgram", `{"enabled":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.GetApp().Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "go_goroutines")
}
