// Package metrics provides Prometheus metrics for the sheetboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultSampleInterval = 10 * time.Second
)

// Refresh outcome label values.
const (
	OutcomeSuccess    = "success"
	OutcomeFetchError = "fetch_error"
	OutcomeParseError = "parse_error"
	OutcomeSkipped    = "skipped"
	OutcomeStale      = "stale"
)

// Manager manages all Prometheus metrics for the sheetboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	sampleInterval   time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Refresh pipeline
	refreshes       *prometheus.CounterVec
	refreshLatency  prometheus.Histogram
	fetchLatency    *prometheus.HistogramVec
	fetchBytes      prometheus.Histogram
	rowsFetched     prometheus.Gauge
	rowsDropped     *prometheus.CounterVec
	lastSuccessUnix prometheus.Gauge

	// Snapshot shape
	snapshotSequence prometheus.Gauge
	snapshotEntries  prometheus.Gauge
	snapshotColleges prometheus.Gauge
	snapshotPosters  prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "sheetboard",
		subsystem:        "scoreboard",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		sampleInterval:   defaultSampleInterval,
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

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.refreshes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("refreshes_total"),
		Help:        "Refresh attempts by trigger and outcome",
		ConstLabels: constLabels,
	}, []string{"trigger", "outcome"})

	m.refreshLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("refresh_latency_milliseconds"),
		Help:        "Wall time of a full fetch, normalize and aggregate pass",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.fetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fetch_latency_milliseconds"),
		Help:        "Latency of the source fetch by format",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"format"})

	m.fetchBytes = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fetch_body_bytes"),
		Help:        "Size of the source response body",
		Buckets:     prometheus.ExponentialBuckets(256, 4, 8),
		ConstLabels: constLabels,
	})

	m.rowsFetched = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("rows_fetched"),
		Help:        "Raw rows returned by the last successful fetch",
		ConstLabels: constLabels,
	})

	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("rows_dropped_total"),
		Help:        "Rows discarded by the normalizer, by layout",
		ConstLabels: constLabels,
	}, []string{"layout"})

	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_success_unixtime"),
		Help:        "Unix time of the last snapshot swap",
		ConstLabels: constLabels,
	})

	m.snapshotSequence = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_sequence"),
		Help:        "Sequence number of the current snapshot",
		ConstLabels: constLabels,
	})

	m.snapshotEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_entries"),
		Help:        "Canonical entries in the current snapshot",
		ConstLabels: constLabels,
	})

	m.snapshotColleges = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_colleges"),
		Help:        "Distinct college abbreviations in the current snapshot",
		ConstLabels: constLabels,
	})

	m.snapshotPosters = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_posters"),
		Help:        "Resolved poster URLs in the current snapshot",
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_component_total"),
			Help:        "Errors by component and type",
			ConstLabels: constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Errors by type and severity",
			ConstLabels: constLabels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Errors by HTTP endpoint",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("error_latency_milliseconds"),
			Help:        "Latency of failed operations in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})
}

// RecordRefresh counts a refresh attempt by trigger ("tick", "manual", "startup") and outcome.
func RecordRefresh(trigger, outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.refreshes.WithLabelValues(trigger, outcome).Inc()
}

// RecordRefreshLatency records the duration of a refresh pass in milliseconds.
func RecordRefreshLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.refreshLatency.Observe(latencyMs)
}

// RecordFetchLatency records the source fetch latency in milliseconds.
func RecordFetchLatency(format string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.fetchLatency.WithLabelValues(format).Observe(latencyMs)
}

// RecordFetchBytes records the size of a fetched response body.
func RecordFetchBytes(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.fetchBytes.Observe(float64(n))
}

// UpdateRowsFetched sets the raw row count of the last fetch.
func UpdateRowsFetched(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.rowsFetched.Set(float64(n))
}

// RecordRowsDropped adds n rows dropped by the normalizer.
func RecordRowsDropped(layout string, n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.rowsDropped.WithLabelValues(layout).Add(float64(n))
}

// UpdateSnapshot publishes the shape of a freshly swapped snapshot.
func UpdateSnapshot(seq uint64, entries, colleges, posters int, at time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotSequence.Set(float64(seq))
	globalManager.snapshotEntries.Set(float64(entries))
	globalManager.snapshotColleges.Set(float64(colleges))
	globalManager.snapshotPosters.Set(float64(posters))
	globalManager.lastSuccessUnix.Set(float64(at.Unix()))
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records errors by component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records errors by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of failed operations.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// GetRegistry returns the custom metrics registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
