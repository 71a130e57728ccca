// Package metrics provides Prometheus metrics for the sketch recognition service.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classification outcomes used as the "outcome" label.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeEmpty     = "empty"
)

// costBuckets covers the useful range of elastic distances between
// normalized strokes; the default threshold sits at 20.
var costBuckets = []float64{0.5, 1, 2, 5, 10, 15, 20, 30, 50, 100} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the recognizer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	costBuckets      []float64
	registry         prometheus.Registerer

	// Recognition
	classifications       *prometheus.CounterVec
	classificationLatency prometheus.Histogram
	bestCost              prometheus.Histogram
	matchWorkers          prometheus.Gauge

	// Template store
	templatesTotal     prometheus.Gauge
	templateUpserts    prometheus.Counter
	templateRemovals   prometheus.Counter
	storeUpdateLatency prometheus.Histogram

	// Persistence
	persistenceErrors *prometheus.CounterVec
	templatesLoaded   prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sketchrec",
		subsystem:        "recognizer",
		histogramBuckets: prometheus.DefBuckets,
		costBuckets:      costBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.classifications = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "classifications_total",
			Help:      "Total number of classified strokes by outcome",
		},
		[]string{"outcome"},
	)

	m.classificationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classification_latency_milliseconds",
		Help:      "Time to normalize a stroke and match it against every template",
		Buckets:   m.histogramBuckets,
	})

	m.bestCost = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "best_cost",
		Help:      "Lowest elastic distance found per classification",
		Buckets:   m.costBuckets,
	})

	m.matchWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_workers",
		Help:      "Configured number of parallel template matchers",
	})

	m.templatesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "templates_total",
		Help:      "Number of templates currently loaded",
	})

	m.templateUpserts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "template_upserts_total",
		Help:      "Total number of template inserts and overwrites",
	})

	m.templateRemovals = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "template_removals_total",
		Help:      "Total number of templates deleted",
	})

	m.storeUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_update_latency_milliseconds",
		Help:      "Template store load and upsert latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.persistenceErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "persistence_errors_total",
			Help:      "Template file read and write failures",
		},
		[]string{"operation"},
	)

	m.templatesLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "templates_loaded_total",
		Help:      "Total number of templates read from disk",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)
}

// RecordClassification increments the classification counter for outcome.
func RecordClassification(outcome string) {
	globalManager.classifications.WithLabelValues(outcome).Inc()
}

// RecordClassificationLatency records classification latency in milliseconds.
func RecordClassificationLatency(latencyMs float64) {
	globalManager.classificationLatency.Observe(latencyMs)
}

// RecordBestCost records the best distance of one classification. Infinite
// costs (no templates) are skipped.
func RecordBestCost(cost float64) {
	if math.IsInf(cost, 0) || math.IsNaN(cost) {
		return
	}
	globalManager.bestCost.Observe(cost)
}

// UpdateMatchWorkers sets the configured matcher parallelism.
func UpdateMatchWorkers(n int) {
	globalManager.matchWorkers.Set(float64(n))
}

// UpdateTemplatesTotal sets the number of loaded templates.
func UpdateTemplatesTotal(n int) {
	globalManager.templatesTotal.Set(float64(n))
}

// RecordTemplateUpsert increments the template upsert counter.
func RecordTemplateUpsert() {
	globalManager.templateUpserts.Inc()
}

// RecordTemplateRemoval increments the template removal counter.
func RecordTemplateRemoval() {
	globalManager.templateRemovals.Inc()
}

// RecordStoreUpdateLatency records template store update latency.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// RecordPersistenceError increments the persistence error counter for
// operation ("read", "write" or "delete").
func RecordPersistenceError(operation string) {
	globalManager.persistenceErrors.WithLabelValues(operation).Inc()
}

// RecordTemplatesLoaded adds n to the templates-read-from-disk counter.
func RecordTemplatesLoaded(n int) {
	globalManager.templatesLoaded.Add(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
