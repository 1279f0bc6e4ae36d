// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Detection metrics
	EventsProcessed   prometheus.Counter
	DedupSkips        prometheus.Counter
	CandidatesCreated *prometheus.CounterVec
	Detections        prometheus.Counter
	CallbackFailures  prometheus.Counter

	// Verification metrics
	VerificationLookups   prometheus.Counter
	VerificationCacheHits *prometheus.CounterVec

	// Cache metrics
	CacheResets prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_sniper"
	}

	return &Metrics{
		EventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "events_processed_total",
			Help:      "Total number of log events dispatched to the pipeline",
		}),
		DedupSkips: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "dedup_skips_total",
			Help:      "Total number of events skipped as already-seen transactions",
		}),
		CandidatesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "candidates_total",
			Help:      "Total number of candidates extracted by confidence",
		}, []string{"confidence"}),
		Detections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "detections_total",
			Help:      "Total number of finalized detections",
		}),
		CallbackFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "callback_failures_total",
			Help:      "Total number of detection callbacks that returned an error",
		}),

		VerificationLookups: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "lookups_total",
			Help:      "Total number of transaction-sender lookups issued",
		}),
		VerificationCacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "cache_hits_total",
			Help:      "Total number of verification cache hits by kind",
		}, []string{"kind"}),

		CacheResets: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "cache_resets_total",
			Help:      "Total number of dedup ledger resets",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEventProcessed increments the events processed counter.
func RecordEventProcessed() {
	DefaultMetrics.EventsProcessed.Inc()
}

// RecordDedupSkip increments the dedup skips counter.
func RecordDedupSkip() {
	DefaultMetrics.DedupSkips.Inc()
}

// RecordCandidate records an extracted candidate by confidence.
func RecordCandidate(confidence string) {
	DefaultMetrics.CandidatesCreated.WithLabelValues(confidence).Inc()
}

// RecordDetection increments the finalized detections counter.
func RecordDetection() {
	DefaultMetrics.Detections.Inc()
}

// RecordCallbackFailure increments the callback failures counter.
func RecordCallbackFailure() {
	DefaultMetrics.CallbackFailures.Inc()
}

// RecordVerificationLookup increments the verification lookups counter.
func RecordVerificationLookup() {
	DefaultMetrics.VerificationLookups.Inc()
}

// RecordVerificationCacheHit records a verification cache hit
// ("positive" or "negative").
func RecordVerificationCacheHit(kind string) {
	DefaultMetrics.VerificationCacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheReset increments the cache resets counter.
func RecordCacheReset() {
	DefaultMetrics.CacheResets.Inc()
}
