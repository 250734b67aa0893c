// Package metrics defines and registers the custom Prometheus metrics of the
// payments portal. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; the /metrics route exposes them together with the HTTP server
// metrics produced by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Backend client metrics ───────────────────────────────────────────────────

// BackendRequestsTotal counts calls issued through the authenticated request client.
// Labels:
//   - method: HTTP method
//   - code: response status code, or "error" when the transport failed
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the payments backend.",
	},
	[]string{"method", "code"},
)

// BackendRequestDuration measures backend round trips.
// Label:
//   - method: HTTP method
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the payments backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state changes.
// Label:
//   - to: the state entered ("authenticated", "unauthenticated")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by target state.",
	},
	[]string{"to"},
)

// AuthAttemptsTotal counts login and registration attempts.
// Labels:
//   - op: "login" or "register"
//   - result: "ok" or "failed"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and registration attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// ── Guard metrics ────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - guard: "authenticated" or "admin"
//   - decision: "render", "loading", or "redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"guard", "decision"},
)

// UploadsTotal counts CSV uploads handled by the portal.
// Label:
//   - result: "forwarded", "rejected" (failed local validation), or "failed" (backend error)
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of CSV uploads, by outcome.",
	},
	[]string{"result"},
)

// ── Development backend metrics ──────────────────────────────────────────────

// ImportJobsTotal counts CSV import jobs run by the development backend's queue.
// Label:
//   - result: "ok" or "failed"
var ImportJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "devbackend",
		Name:      "import_jobs_total",
		Help:      "Total number of CSV import jobs processed, by outcome.",
	},
	[]string{"result"},
)
