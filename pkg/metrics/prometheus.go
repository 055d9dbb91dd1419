// Package metrics provides Prometheus metrics for the activities service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Registry business metrics
	signups          *prometheus.CounterVec
	unregistrations  *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	participants     *prometheus.GaugeVec
	activities       prometheus.Gauge
	totalParticipant prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// Custom registry so the exposition only carries service metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared exposition registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "activities",
		subsystem:        "registry",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.signups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "signups_total",
		Help: "Accepted sign-ups by activity",
	}, []string{"activity"})

	m.unregistrations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "unregistrations_total",
		Help: "Accepted unregistrations by activity",
	}, []string{"activity"})

	m.rejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "rejections_total",
		Help: "Rejected registry operations by operation and reason",
	}, []string{"operation", "reason"})

	m.participants = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "participants",
		Help: "Current participants per activity",
	}, []string{"activity"})

	m.activities = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "activities",
		Help: "Number of activities in the registry",
	})

	m.totalParticipant = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "participants_total",
		Help: "Participants across all activities",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", ConstLabels: m.constLabels,
		Name: "requests_total",
		Help: "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http", ConstLabels: m.constLabels,
		Name:    "request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", ConstLabels: m.constLabels,
		Name: "errors_by_endpoint_total",
		Help: "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.errorsByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", ConstLabels: m.constLabels,
		Name: "errors_by_type_total",
		Help: "HTTP error responses by error type and severity",
	}, []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: m.constLabels,
		Name: "memory_bytes",
		Help: "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: m.constLabels,
		Name: "goroutines",
		Help: "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: m.constLabels,
		Name:    "gc_pause_milliseconds",
		Help:    "Average GC pause in milliseconds",
		Buckets: m.histogramBuckets,
	})
}

// Package-level recorders operate on the global manager.

// RecordSignup counts an accepted sign-up.
func RecordSignup(activity string) {
	if globalManager.enabled {
		globalManager.signups.WithLabelValues(activity).Inc()
	}
}

// RecordUnregistration counts an accepted unregistration.
func RecordUnregistration(activity string) {
	if globalManager.enabled {
		globalManager.unregistrations.WithLabelValues(activity).Inc()
	}
}

// RecordRejection counts a failed registry operation. Activity names are not
// used as labels here since unknown names come straight from clients.
func RecordRejection(operation, reason string) {
	if globalManager.enabled {
		globalManager.rejections.WithLabelValues(operation, reason).Inc()
	}
}

// UpdateParticipants sets the participant gauge of one activity.
func UpdateParticipants(activity string, count int) {
	if globalManager.enabled {
		globalManager.participants.WithLabelValues(activity).Set(float64(count))
	}
}

// UpdateActivities sets the activity count gauge.
func UpdateActivities(count int) {
	if globalManager.enabled {
		globalManager.activities.Set(float64(count))
	}
}

// UpdateTotalParticipants sets the participants-across-activities gauge.
func UpdateTotalParticipants(count int) {
	if globalManager.enabled {
		globalManager.totalParticipant.Set(float64(count))
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByEndpoint counts an error response per endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorByType counts an error response per type and severity.
func RecordErrorByType(errorType, severity string) {
	if globalManager.enabled {
		globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the registry backing the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
