// Package metrics defines and registers the custom Prometheus metrics for the
// gatekeeper API. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics are registered with the default Prometheus registry through
// promauto when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gatekeeper"

// ── Access metrics ───────────────────────────────────────────────────────────

// AccessDecisionsTotal counts access gate evaluations.
// Labels:
//   - required: the minimum role requested (e.g. "developer")
//   - outcome: "allow", "unauthenticated" or "insufficient-privilege"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access gate decisions, by required role and outcome.",
	},
	[]string{"required", "outcome"},
)

// RedirectDecisionsTotal counts navigation decisions.
// Label:
//   - kind: "render-in-place", "redirect-to-role-dashboard" or "redirect-to-public-home"
var RedirectDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redirect_decisions_total",
		Help:      "Total number of navigation decisions, by kind.",
	},
	[]string{"kind"},
)

// ImpersonationChangesTotal counts role override changes made by admins.
// Label:
//   - action: "set" or "cleared"
var ImpersonationChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "impersonation_changes_total",
		Help:      "Total number of role override changes.",
	},
	[]string{"action"},
)

// ── Login metrics ────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid_credentials", "locked", "missing_fields", "rate_limited" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LoginDuration measures the login flow including password verification.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of the login flow from request to token issue.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Audit metrics ────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events leaving the dispatcher.
// Label:
//   - result: "delivered", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by delivery result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks pending events in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
