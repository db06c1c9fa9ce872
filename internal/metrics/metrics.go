package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the dashboard.
// A nil *MetricsRegistry is valid and records nothing.
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// External service Metrics
	ExternalCallsTotal   prometheus.CounterVec
	ExternalCallDuration prometheus.HistogramVec

	// Business Metrics
	WorkbooksLoadedTotal prometheus.CounterVec
	PagesComputedTotal   prometheus.CounterVec
	SessionsActive       prometheus.Gauge
}

// NewMetricsRegistry registers every metric on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetdash_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fleetdash_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fleetdash_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetdash_cache_hits_total",
				Help: "Total cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetdash_cache_misses_total",
				Help: "Total cache misses by cache name",
			},
			[]string{"cache"},
		),

		// External service Metrics
		ExternalCallsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetdash_external_calls_total",
				Help: "Calls to geocoding and routing services by outcome",
			},
			[]string{"service", "outcome"},
		),
		ExternalCallDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fleetdash_external_call_duration_seconds",
				Help:    "External service latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"service"},
		),

		// Business Metrics
		WorkbooksLoadedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetdash_workbooks_loaded_total",
				Help: "Workbook load attempts by result",
			},
			[]string{"result"},
		),
		PagesComputedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetdash_pages_computed_total",
				Help: "Dashboard pages computed by page id",
			},
			[]string{"page"},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fleetdash_sessions_active",
				Help: "Current number of dashboard sessions holding a dataset",
			},
		),
	}
}

func (m *MetricsRegistry) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

func (m *MetricsRegistry) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// ExternalCall records one outbound request.
func (m *MetricsRegistry) ExternalCall(service, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.ExternalCallsTotal.WithLabelValues(service, outcome).Inc()
	m.ExternalCallDuration.WithLabelValues(service).Observe(seconds)
}

func (m *MetricsRegistry) WorkbookLoaded(result string) {
	if m == nil {
		return
	}
	m.WorkbooksLoadedTotal.WithLabelValues(result).Inc()
}

func (m *MetricsRegistry) PageComputed(page string) {
	if m == nil {
		return
	}
	m.PagesComputedTotal.WithLabelValues(page).Inc()
}

func (m *MetricsRegistry) SetSessions(n int) {
	if m == nil {
		return
	}
	m.SessionsActive.Set(float64(n))
}
