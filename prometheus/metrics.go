package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agrimart/agrimart-gateway/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Backend call metrics
	BackendRequestDuration prometheus.HistogramVec
	BackendRetriesCounter  prometheus.CounterVec

	// Catalog engine metrics
	EnrichmentDegradedCounter prometheus.CounterVec
	CatalogRefreshCounter     prometheus.CounterVec
	MutationCounter           prometheus.CounterVec

	// Notification poller metrics
	PollerRunsCounter prometheus.CounterVec

	once  sync.Once
	ready bool
)

// InitMetrics initializes Prometheus metrics with configuration. Calling it
// more than once is a no-op so tests can share a process.
func InitMetrics(config *config.Config) {
	once.Do(func() {
		prefix := config.Metrics.Prefix

		HttpRequestsTotal = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		BackendRequestDuration = *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_backend_request_duration_seconds",
				Help:    "Duration of marketplace backend requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "outcome"},
		)

		BackendRetriesCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_backend_retries_total",
				Help: "Total number of retried backend GET requests",
			},
			[]string{"endpoint"},
		)

		EnrichmentDegradedCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_enrichment_degraded_total",
				Help: "Total number of enrichment sub-steps that degraded to an absent field",
			},
			[]string{"step"},
		)

		CatalogRefreshCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_catalog_refresh_total",
				Help: "Total number of catalog collection refreshes",
			},
			[]string{"collection", "outcome"},
		)

		MutationCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_mutations_total",
				Help: "Total number of dispatched record mutations",
			},
			[]string{"resource", "action", "outcome"},
		)

		PollerRunsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_poller_runs_total",
				Help: "Total number of notification poller runs",
			},
			[]string{"collection", "outcome"},
		)

		ready = true
	})
}

// TrackBackendRequest returns a function that records the duration and
// outcome of one backend request.
func TrackBackendRequest(endpoint string) func(startTime time.Time, outcome string) {
	return func(startTime time.Time, outcome string) {
		if !ready {
			return
		}
		duration := time.Since(startTime).Seconds()
		BackendRequestDuration.WithLabelValues(endpoint, outcome).Observe(duration)
	}
}

// RecordBackendRetry increments the counter for retried backend GETs.
func RecordBackendRetry(endpoint string) {
	if !ready {
		return
	}
	BackendRetriesCounter.WithLabelValues(endpoint).Inc()
}

// RecordEnrichmentDegraded increments the counter for degraded enrichment
// sub-steps.
func RecordEnrichmentDegraded(step string) {
	if !ready {
		return
	}
	EnrichmentDegradedCounter.WithLabelValues(step).Inc()
}

// RecordCatalogRefresh increments the counter for catalog refreshes.
func RecordCatalogRefresh(collection, outcome string) {
	if !ready {
		return
	}
	CatalogRefreshCounter.WithLabelValues(collection, outcome).Inc()
}

// RecordMutation increments the counter for dispatched mutations.
func RecordMutation(resource string, action string, outcome string) {
	if !ready {
		return
	}
	MutationCounter.WithLabelValues(resource, action, outcome).Inc()
}

// RecordPollerRun increments the counter for notification poller runs.
func RecordPollerRun(collection, outcome string) {
	if !ready {
		return
	}
	PollerRunsCounter.WithLabelValues(collection, outcome).Inc()
}
