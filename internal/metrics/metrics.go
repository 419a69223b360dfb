package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan outcomes
const (
	OutcomeSuccess      = "success"
	OutcomeNoContent    = "no_content"
	OutcomeNetworkError = "network_error"
	OutcomeBackendError = "backend_error"
	OutcomeBusy         = "busy"
	OutcomeError        = "error"
)

var (
	// ScansTotal counts scans by outcome
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phishguard_scans_total",
			Help: "Total number of email scans by outcome",
		},
		[]string{"outcome"},
	)

	// BackendCallLatency is the analysis backend call latency in seconds
	BackendCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phishguard_backend_call_duration_seconds",
			Help:    "Analysis backend call latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"endpoint", "status"},
	)

	// LLMCallLatency is the model call latency of the reference backend in seconds
	LLMCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phishguard_llm_call_duration_seconds",
			Help:    "LLM call latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"provider", "kind", "status"},
	)

	// URLCacheLookups counts URL verdict cache lookups by result
	URLCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phishguard_url_cache_lookups_total",
			Help: "URL analysis cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordScan counts one scan outcome
func RecordScan(outcome string) {
	ScansTotal.WithLabelValues(outcome).Inc()
}

// RecordBackendCall records one analysis backend call
func RecordBackendCall(endpoint, status string, latency time.Duration) {
	BackendCallLatency.WithLabelValues(endpoint, status).Observe(latency.Seconds())
}

// RecordLLMCall records one model call
func RecordLLMCall(provider, kind, status string, latency time.Duration) {
	LLMCallLatency.WithLabelValues(provider, kind, status).Observe(latency.Seconds())
}

// RecordURLCacheLookup counts a URL cache hit or miss
func RecordURLCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	URLCacheLookups.WithLabelValues(result).Inc()
}
