package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestTenantMetricsCounts(t *testing.T) {
	m := NewTenantMetrics(prometheus.NewRegistry())

	m.Resolution("found")
	m.Resolution("found")
	m.Resolution("failed")
	m.ThemeFallback("--primary")
	m.SetActiveSessions(3)

	assert.Equal(t, 2.0, counterValue(t, m.ResolutionsTotal.WithLabelValues("found")))
	assert.Equal(t, 1.0, counterValue(t, m.ResolutionsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, counterValue(t, m.ThemeFallbackTotal.WithLabelValues("--primary")))

	var gauge dto.Metric
	require.NoError(t, m.ActiveSessions.Write(&gauge))
	assert.Equal(t, 3.0, gauge.GetGauge().GetValue())
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *TenantMetrics
	assert.NotPanics(t, func() {
		m.Resolution("found")
		m.Mutation("update_tenant", "ok")
		m.MalformedConfig()
		m.ThemeFallback("--accent")
		m.Onboarding("ok")
		m.SetActiveSessions(1)
	})
}

func TestRegisteringTwiceOnOneRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewTenantMetrics(reg)
	assert.Panics(t, func() { NewTenantMetrics(reg) })
}
