// Package metrics defines and registers all custom Prometheus metrics for the
// rental API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rental"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RoleSwitchesTotal counts role switch requests.
// Labels:
//   - target: requested role token
//   - applied: "true" when the switch took effect
var RoleSwitchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_switches_total",
		Help:      "Total number of role switch requests.",
	},
	[]string{"target", "applied"},
)

// GuardDecisionsTotal counts navigation guard outcomes.
// Label:
//   - outcome: "allow" or "redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of navigation guard decisions.",
	},
	[]string{"outcome"},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartOutcomesTotal counts cart mutations by operation and outcome status.
// Labels:
//   - op: "add", "update", "remove"
//   - status: "applied", "ignored", "rejected", "clamped"
var CartOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_outcomes_total",
		Help:      "Total number of cart mutations, by operation and outcome.",
	},
	[]string{"op", "status"},
)

// CheckoutsTotal counts rental requests created from carts.
var CheckoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of carts checked out.",
	},
)

// ── Durable storage metrics ───────────────────────────────────────────────────

// StorageWritesTotal counts durable storage writes.
// Labels:
//   - op: "set" or "remove"
//   - result: "ok" or "error"
var StorageWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_writes_total",
		Help:      "Total number of durable storage writes, by operation and result.",
	},
	[]string{"op", "result"},
)

// StorageQueueDepth tracks pending writes per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var StorageQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "storage_queue_depth",
		Help:      "Current number of durable writes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── In-memory registry metrics ────────────────────────────────────────────────

// EvictionsTotal counts idle entries dropped from in-memory registries.
// Label:
//   - registry: "sessions" or "carts"
var EvictionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registry_evictions_total",
		Help:      "Total number of idle entries evicted from in-memory registries.",
	},
	[]string{"registry"},
)
