package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TenantMetrics holds the Prometheus metrics of the tenant runtime.
// A nil *TenantMetrics is valid and records nothing.
type TenantMetrics struct {
	ResolutionsTotal     *prometheus.CounterVec
	MutationsTotal       *prometheus.CounterVec
	MalformedConfigTotal prometheus.Counter
	ThemeFallbackTotal   *prometheus.CounterVec
	OnboardingTotal      *prometheus.CounterVec
	ActiveSessions       prometheus.Gauge
}

// NewTenantMetrics registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewTenantMetrics(reg prometheus.Registerer) *TenantMetrics {
	factory := promauto.With(reg)
	return &TenantMetrics{
		ResolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schoolhub",
			Subsystem: "tenant",
			Name:      "resolutions_total",
			Help:      "Tenant resolutions by outcome.",
		}, []string{"outcome"}), // outcome: found, not_found, failed
		MutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schoolhub",
			Subsystem: "tenant",
			Name:      "mutations_total",
			Help:      "Tenant store mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		MalformedConfigTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "schoolhub",
			Subsystem: "tenant",
			Name:      "malformed_config_total",
			Help:      "Feature rows whose config was not a JSON object.",
		}),
		ThemeFallbackTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schoolhub",
			Subsystem: "theme",
			Name:      "fallback_total",
			Help:      "Theme variables that fell back because the tenant value was invalid.",
		}, []string{"variable"}),
		OnboardingTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schoolhub",
			Subsystem: "onboarding",
			Name:      "completions_total",
			Help:      "Onboarding terminal transitions by outcome.",
		}, []string{"outcome"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "schoolhub",
			Subsystem: "session",
			Name:      "active",
			Help:      "Tenant sessions currently held in the registry.",
		}),
	}
}

func (m *TenantMetrics) Resolution(outcome string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
}

func (m *TenantMetrics) Mutation(op, outcome string) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(op, outcome).Inc()
}

func (m *TenantMetrics) MalformedConfig() {
	if m == nil {
		return
	}
	m.MalformedConfigTotal.Inc()
}

func (m *TenantMetrics) ThemeFallback(variable string) {
	if m == nil {
		return
	}
	m.ThemeFallbackTotal.WithLabelValues(variable).Inc()
}

func (m *TenantMetrics) Onboarding(outcome string) {
	if m == nil {
		return
	}
	m.OnboardingTotal.WithLabelValues(outcome).Inc()
}

func (m *TenantMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
