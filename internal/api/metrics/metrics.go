// Package metrics defines and registers all custom Prometheus metrics for the
// case management API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto. HTTP request metrics come from the router's echoprometheus
// middleware under the same namespace.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric of the service, HTTP request metrics
// included.
const Namespace = "casemgmt"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthEventsTotal counts authentication attempts.
// Labels:
//   - event: "register", "login" or "refresh"
//   - result: "success" or the error kind (e.g. "unauthenticated", "conflict")
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication attempts, by event and result.",
	},
	[]string{"event", "result"},
)

// ── Rate limit metrics ────────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected with 429.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// RateLimiterErrorsTotal counts limiter failures. Requests are let through
// when the limiter is unavailable.
var RateLimiterErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limiter_errors_total",
		Help:      "Total number of rate limiter backend errors.",
	},
)

// ── Document metrics ──────────────────────────────────────────────────────────

// DocumentsUploadedTotal counts stored documents.
var DocumentsUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "documents_uploaded_total",
		Help:      "Total number of documents uploaded.",
	},
)

// DocumentUploadBytes observes the size of uploaded documents.
var DocumentUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "document_upload_bytes",
		Help:      "Size of uploaded documents in bytes.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. 16MiB
	},
)

// FileCleanupTotal counts background file removals.
// Label:
//   - outcome: "deleted", "failed" or "dropped"
var FileCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "file_cleanup_total",
		Help:      "Total number of stored file removals, by outcome.",
	},
	[]string{"outcome"},
)

// ObserveCleanup records one cleanup outcome. It matches the observer hook
// of the cleanup dispatcher.
func ObserveCleanup(outcome string) {
	FileCleanupTotal.WithLabelValues(outcome).Inc()
}
