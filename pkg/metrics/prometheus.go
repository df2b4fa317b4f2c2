// Package metrics provides Prometheus metrics for the matchdesk service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the matchdesk service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Command metrics - one inbound command handled end to end
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec

	// Claim metrics
	claimsTotal      *prometheus.CounterVec
	claimDisplaced   prometheus.Counter
	replayDuplicates prometheus.Counter

	// Event lifecycle metrics
	eventsCreated   prometheus.Counter
	eventsDeleted   prometheus.Counter
	resultsRecorded prometheus.Counter
	eventsTracked   prometheus.Gauge

	// Store metrics
	storeOpLatency *prometheus.HistogramVec
	storeErrors    prometheus.Counter

	// Display sync metrics
	displayEdits        prometheus.Counter
	displayEditsDropped prometheus.Counter

	// Outbox / delivery metrics
	outboxDepth       prometheus.Gauge
	outboxCapacity    prometheus.Gauge
	outboxRejected    prometheus.Counter
	deliveriesTotal   *prometheus.CounterVec
	deliveryWorkers   prometheus.Gauge
	auditDropped      prometheus.Counter
	deliveryLatencyMs prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
	gcPauseMs         prometheus.Histogram
}

// defaultManager is the package-level manager used by the free functions below.
var defaultManager = NewManager()

// NewManager creates a metrics manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "matchdesk",
		registry:  prometheus.NewRegistry(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.commandsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "commands_total",
		Help:      "Commands handled, by command name and outcome.",
	}, []string{"command", "outcome"})

	m.commandDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "command_duration_ms",
		Help:      "Command handling duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"command"})

	m.claimsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "claims_total",
		Help:      "Slot claim attempts, by slot and outcome.",
	}, []string{"slot", "outcome"})

	m.claimDisplaced = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "claims_displaced_total",
		Help:      "Claims that replaced a previously held slot (last-claim-wins).",
	})

	m.replayDuplicates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "interaction_replays_total",
		Help:      "Interactions dropped by the replay guard.",
	})

	m.eventsCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_created_total",
		Help:      "Events created.",
	})

	m.eventsDeleted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_deleted_total",
		Help:      "Events deleted after confirmation.",
	})

	m.resultsRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "results_recorded_total",
		Help:      "Result records appended.",
	})

	m.eventsTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "events_tracked",
		Help:      "Events currently stored across all tenants.",
	})

	m.storeOpLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "store_op_duration_ms",
		Help:      "Event store operation latency in milliseconds, by operation.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	}, []string{"op"})

	m.storeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "store_errors_total",
		Help:      "Event store operations that failed.",
	})

	m.displayEdits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "display_edits_total",
		Help:      "Display edits pushed to the platform gateway.",
	})

	m.displayEditsDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "display_edits_dropped_total",
		Help:      "Display edits dropped because a newer revision was already applied.",
	})

	m.outboxDepth = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "outbox_depth",
		Help:      "Deliveries waiting in the outbox queue.",
	})

	m.outboxCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "outbox_capacity",
		Help:      "Configured outbox queue capacity.",
	})

	m.outboxRejected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "outbox_rejected_total",
		Help:      "Deliveries rejected by the outbox (full or closed).",
	})

	m.deliveriesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "deliveries_total",
		Help:      "Outbound deliveries attempted, by kind and outcome.",
	}, []string{"kind", "outcome"})

	m.deliveryWorkers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "delivery_workers",
		Help:      "Delivery workers currently running.",
	})

	m.auditDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "audit_dropped_total",
		Help:      "Audit entries that could not be delivered (best-effort, swallowed).",
	})

	m.deliveryLatencyMs = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "delivery_duration_ms",
		Help:      "Outbound delivery latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "errors_total",
		Help:      "Errors observed, by component and kind.",
	}, []string{"component", "kind"})

	m.systemMemoryBytes = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "system_memory_bytes",
		Help:      "Allocated heap memory in bytes.",
	})

	m.systemGoroutines = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "system_goroutines",
		Help:      "Number of running goroutines.",
	})

	m.gcPauseMs = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "gc_pause_ms",
		Help:      "Average GC pause time in milliseconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
	})

	return m
}

// GetRegistry returns the registry backing the default manager.
func GetRegistry() *prometheus.Registry {
	return defaultManager.registry
}

// Command metrics.

func RecordCommand(command, outcome string) {
	defaultManager.commandsTotal.WithLabelValues(command, outcome).Inc()
}

func RecordCommandDuration(command string, ms float64) {
	defaultManager.commandDuration.WithLabelValues(command).Observe(ms)
}

// Claim metrics.

func RecordClaim(slot, outcome string) {
	defaultManager.claimsTotal.WithLabelValues(slot, outcome).Inc()
}

func RecordClaimDisplaced() {
	defaultManager.claimDisplaced.Inc()
}

func RecordInteractionReplay() {
	defaultManager.replayDuplicates.Inc()
}

// Event lifecycle metrics.

func RecordEventCreated()   { defaultManager.eventsCreated.Inc() }
func RecordEventDeleted()   { defaultManager.eventsDeleted.Inc() }
func RecordResultRecorded() { defaultManager.resultsRecorded.Inc() }

func UpdateEventsTracked(n int) {
	defaultManager.eventsTracked.Set(float64(n))
}

// Store metrics.

func RecordStoreOpLatency(op string, ms float64) {
	defaultManager.storeOpLatency.WithLabelValues(op).Observe(ms)
}

func RecordStoreError() {
	defaultManager.storeErrors.Inc()
}

// Display sync metrics.

func RecordDisplayEdit()        { defaultManager.displayEdits.Inc() }
func RecordDisplayEditDropped() { defaultManager.displayEditsDropped.Inc() }

// Outbox metrics.

func UpdateOutboxDepth(n int) {
	defaultManager.outboxDepth.Set(float64(n))
}

func UpdateOutboxCapacity(n int) {
	defaultManager.outboxCapacity.Set(float64(n))
}

func RecordOutboxRejected() {
	defaultManager.outboxRejected.Inc()
}

func RecordDelivery(kind, outcome string) {
	defaultManager.deliveriesTotal.WithLabelValues(kind, outcome).Inc()
}

func UpdateDeliveryWorkers(n int) {
	defaultManager.deliveryWorkers.Set(float64(n))
}

func RecordAuditDropped() {
	defaultManager.auditDropped.Inc()
}

func RecordDeliveryLatency(ms float64) {
	defaultManager.deliveryLatencyMs.Observe(ms)
}

// HTTP metrics.

func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	defaultManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// Error metrics.

func RecordErrorByComponent(component, kind string) {
	defaultManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}

// System metrics.

func UpdateSystemMemoryUsage(bytes uint64) {
	defaultManager.systemMemoryBytes.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(n int) {
	defaultManager.systemGoroutines.Set(float64(n))
}

func RecordSystemGCPauseTime(ms float64) {
	defaultManager.gcPauseMs.Observe(ms)
}
