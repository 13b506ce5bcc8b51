// Package metrics provides Prometheus metrics for the EventSphere client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every client-side Prometheus collector.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Upstream REST API
	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec

	// Discovery
	discoveryFetches *prometheus.CounterVec
	discoveryEvents  prometheus.Gauge

	// Optimistic updates
	optimisticApplied   *prometheus.CounterVec
	optimisticRollbacks *prometheus.CounterVec
	ticketScans         *prometheus.CounterVec

	// Notices
	notices     *prometheus.CounterVec
	noticeQueue prometheus.Gauge

	// Local status server
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide metrics registry

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // singleton recorder

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "eventsphere",
		subsystem:        "client",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
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

	m.apiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "api_requests_total",
		Help:        "Requests sent to the EventSphere REST API",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status"})

	m.apiRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "api_request_duration_milliseconds",
		Help:        "REST API round-trip latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method"})

	m.discoveryFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "discovery_fetches_total",
		Help:        "Discovery page fetches by kind (reset, more) and result",
		ConstLabels: m.constLabels,
	}, []string{"kind", "result"})

	m.discoveryEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "discovery_events_displayed",
		Help:        "Events currently held in the discovery list",
		ConstLabels: m.constLabels,
	})

	m.optimisticApplied = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "optimistic_updates_total",
		Help:        "Optimistic local mutations applied before a server write",
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.optimisticRollbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "optimistic_rollbacks_total",
		Help:        "Compensating actions run after a failed server write",
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.ticketScans = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ticket_scans_total",
		Help:        "Ticket scan attempts by result (accepted, rejected, dropped)",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.notices = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "notices_total",
		Help:        "User-visible notices published by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.noticeQueue = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "notice_queue_length",
		Help:        "Notices waiting to be shown",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "server",
		Name:        "http_requests_total",
		Help:        "Requests served by the local status server",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "server",
		Name:        "http_request_duration_milliseconds",
		Help:        "Local status server latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status"})
}

// RecordAPIRequest records one upstream request and its latency.
func RecordAPIRequest(endpoint, method, status string, durationMs float64) {
	globalManager.apiRequests.WithLabelValues(endpoint, method, status).Inc()
	globalManager.apiRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordDiscoveryFetch counts a discovery fetch. kind is "reset" or "more".
func RecordDiscoveryFetch(kind, result string) {
	globalManager.discoveryFetches.WithLabelValues(kind, result).Inc()
}

// UpdateDiscoveryEvents sets the number of displayed events.
func UpdateDiscoveryEvents(n int) {
	globalManager.discoveryEvents.Set(float64(n))
}

// RecordOptimisticUpdate counts an optimistic mutation.
func RecordOptimisticUpdate(operation string) {
	globalManager.optimisticApplied.WithLabelValues(operation).Inc()
}

// RecordRollback counts a compensating action.
func RecordRollback(operation string) {
	globalManager.optimisticRollbacks.WithLabelValues(operation).Inc()
}

// RecordTicketScan counts a scan attempt.
func RecordTicketScan(result string) {
	globalManager.ticketScans.WithLabelValues(result).Inc()
}

// RecordNotice counts a published notice.
func RecordNotice(kind string) {
	globalManager.notices.WithLabelValues(kind).Inc()
}

// UpdateNoticeQueue sets the notice queue depth.
func UpdateNoticeQueue(n int) {
	globalManager.noticeQueue.Set(float64(n))
}

// RecordHTTPRequest records a request served by the local status server.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the registry all package-level recorders write to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
