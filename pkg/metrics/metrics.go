// Package metrics provides Prometheus metrics for the jolt pothole service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Ingestion metrics
	submissionsReceived prometheus.Counter
	eventsPersisted     prometheus.Counter
	persistFailures     prometheus.Counter

	// Broadcast metrics
	broadcastsSent    prometheus.Counter
	broadcastDrops    prometheus.Counter
	connectedChannels prometheus.Gauge

	// Store metrics
	storedEvents prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional singleton

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jolt",
		subsystem:        "potholes",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.submissionsReceived = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_received_total",
		Help:      "Total number of detection submissions received over the realtime channel",
	})

	m.eventsPersisted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_persisted_total",
		Help:      "Total number of pothole events durably persisted",
	})

	m.persistFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_failures_total",
		Help:      "Total number of store writes that failed (event dropped, never broadcast)",
	})

	m.broadcastsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcasts_sent_total",
		Help:      "Total number of broadcast-event messages delivered to channels",
	})

	m.broadcastDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcast_drops_total",
		Help:      "Total number of broadcast messages dropped because a channel was too slow",
	})

	m.connectedChannels = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "connected_channels",
		Help:      "Current number of connected realtime channels",
	})

	m.storedEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_events",
		Help:      "Current number of pothole events in the store",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
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
}

// Handler returns an http.Handler serving this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package-level helpers recording on the global manager.

func RecordSubmissionReceived() { globalManager.submissionsReceived.Inc() }
func RecordEventPersisted()     { globalManager.eventsPersisted.Inc() }
func RecordPersistFailure()     { globalManager.persistFailures.Inc() }
func RecordBroadcastSent()      { globalManager.broadcastsSent.Inc() }
func RecordBroadcastDrop()      { globalManager.broadcastDrops.Inc() }

func UpdateConnectedChannels(n int) { globalManager.connectedChannels.Set(float64(n)) }
func UpdateStoredEvents(n int)      { globalManager.storedEvents.Set(float64(n)) }

// RecordHTTPRequest increments the request counter for an endpoint.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes the request duration for an endpoint.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Handler returns the global manager's scrape handler.
func Handler() http.Handler { return globalManager.Handler() }
