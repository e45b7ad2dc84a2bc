// Package metrics defines all custom Prometheus metrics for the
// monitoring console. It is the single source of truth for metric names,
// labels, and help strings; everything registers with the default
// registry on import via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "estacion"

// ── Auth / session metrics ────────────────────────────────────────────────────

// AuthEventsTotal counts auth-state notifications delivered to consoles.
// Label:
//   - kind: initial_session, signed_in, signed_out, token_refreshed, user_updated
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of auth events emitted to console subscriptions.",
	},
	[]string{"kind"},
)

// LoginFailuresTotal counts rejected sign-in attempts.
// Label:
//   - reason: invalid_credentials, email_not_confirmed, internal
var LoginFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total number of failed sign-in attempts, by reason.",
	},
	[]string{"reason"},
)

// SessionChecksTotal counts initial session determinations.
// Label:
//   - outcome: "session", "empty", "timeout", "error"
var SessionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_checks_total",
		Help:      "Total number of initial session checks, by outcome.",
	},
	[]string{"outcome"},
)

// ProfileSyncTotal counts profile fetch-or-create outcomes.
// Label:
//   - result: "found", "created", "error"
var ProfileSyncTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_sync_total",
		Help:      "Total number of profile synchronizations, by result.",
	},
	[]string{"result"},
)

// ── Console metrics ───────────────────────────────────────────────────────────

// ViewNavigationsTotal counts in-app navigations.
// Label:
//   - view: the requested view name
var ViewNavigationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_navigations_total",
		Help:      "Total number of console navigations, by requested view.",
	},
	[]string{"view"},
)

// CSVExportsTotal counts data-table CSV downloads.
var CSVExportsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_exports_total",
		Help:      "Total number of classification CSV exports served.",
	},
)

// ── Ingest metrics ────────────────────────────────────────────────────────────

// ReadingsIngestedTotal counts station readings persisted successfully.
// Label:
//   - tipo: the classified material (e.g. "plastico")
var ReadingsIngestedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_ingested_total",
		Help:      "Total number of classification readings persisted, by material type.",
	},
	[]string{"tipo"},
)

// ReadingsErrorsTotal counts readings that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed")
var ReadingsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_errors_total",
		Help:      "Total number of classification readings that failed processing.",
	},
	[]string{"reason"},
)

// ReadingsDedupTotal counts deduplication decisions on ingest.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new reading)
var ReadingsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_dedup_total",
		Help:      "Total number of ingest deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// IngestQueueDepth tracks the readings waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var IngestQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ingest_queue_depth",
		Help:      "Current number of readings pending in each ingest worker channel.",
	},
	[]string{"worker_id"},
)
