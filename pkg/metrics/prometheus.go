// Package metrics provides Prometheus metrics for the climatekit service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes used as label values.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Manager manages all Prometheus metrics for the climatekit service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Upstream (OpenClimate API) metrics
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	// Lookup metrics
	lookups       *prometheus.CounterVec
	lookupLatency *prometheus.HistogramVec
	tableRows     *prometheus.HistogramVec

	// Target math metrics
	calculations      *prometheus.CounterVec
	calculationErrors *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "climatekit",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// name applies the optional metric prefix.
func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("upstream_requests_total"),
		Help:        "Requests issued to the climate data API by endpoint and outcome",
		ConstLabels: constLabels,
	}, []string{"endpoint", "outcome"})

	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("upstream_request_duration_milliseconds"),
		Help:        "Climate data API request latency in milliseconds",
		Buckets:     []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		ConstLabels: constLabels,
	}, []string{"endpoint"})

	m.lookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("lookups_total"),
		Help:        "Lookups by operation and outcome (found, not_found, error)",
		ConstLabels: constLabels,
	}, []string{"lookup", "outcome"})

	m.lookupLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("lookup_duration_milliseconds"),
		Help:        "End-to-end lookup latency in milliseconds",
		Buckets:     []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		ConstLabels: constLabels,
	}, []string{"lookup"})

	m.tableRows = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("lookup_result_rows"),
		Help:        "Rows returned by successful lookups",
		Buckets:     []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		ConstLabels: constLabels,
	}, []string{"lookup"})

	m.calculations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("calculations_total"),
		Help:        "Target calculations performed by kind",
		ConstLabels: constLabels,
	}, []string{"kind"})

	m.calculationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("calculation_errors_total"),
		Help:        "Target calculations rejected by precondition checks",
		ConstLabels: constLabels,
	}, []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "Errors by endpoint, method and type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("error_latency_milliseconds"),
		Help:        "Latency of operations that ended in an error",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"component", "error_type"})
}

// RecordUpstreamRequest counts one climate data API request and its latency.
func (m *Manager) RecordUpstreamRequest(endpoint, outcome string, latency time.Duration) {
	if !m.enabled {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamLatency.WithLabelValues(endpoint).Observe(float64(latency.Milliseconds()))
}

// RecordLookup counts one lookup with its outcome, latency and result size.
func (m *Manager) RecordLookup(lookup, outcome string, latency time.Duration, rows int) {
	if !m.enabled {
		return
	}
	m.lookups.WithLabelValues(lookup, outcome).Inc()
	m.lookupLatency.WithLabelValues(lookup).Observe(float64(latency.Milliseconds()))
	if outcome == OutcomeFound {
		m.tableRows.WithLabelValues(lookup).Observe(float64(rows))
	}
}

// RecordCalculation counts a target calculation; failed ones also count as errors.
func (m *Manager) RecordCalculation(kind string, err error) {
	if !m.enabled {
		return
	}
	m.calculations.WithLabelValues(kind).Inc()
	if err != nil {
		m.calculationErrors.WithLabelValues(kind).Inc()
	}
}

// RecordHTTPRequest records an HTTP request and its duration in milliseconds.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an HTTP error by endpoint, type and severity.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorLatency.WithLabelValues("http", errorType).Observe(durationMs)
}

// Default returns the process-wide manager bound to the custom registry.
func Default() *Manager {
	return globalManager
}

// RecordUpstreamRequest records on the default manager.
func RecordUpstreamRequest(endpoint, outcome string, latency time.Duration) {
	globalManager.RecordUpstreamRequest(endpoint, outcome, latency)
}

// RecordLookup records on the default manager.
func RecordLookup(lookup, outcome string, latency time.Duration, rows int) {
	globalManager.RecordLookup(lookup, outcome, latency, rows)
}

// RecordCalculation records on the default manager.
func RecordCalculation(kind string, err error) {
	globalManager.RecordCalculation(kind, err)
}

// RecordHTTPRequest records on the default manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records on the default manager.
func RecordHTTPError(endpoint, method, errorType, severity string, durationMs float64) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity, durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
