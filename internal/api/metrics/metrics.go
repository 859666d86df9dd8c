// Package metrics defines and registers all custom Prometheus metrics for the
// hydration service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hydration"

// ── Intake metrics ────────────────────────────────────────────────────────────

// IntakeEntriesTotal counts log entries recorded by the store.
// Label:
//   - kind: "intake" or "adjustment"
var IntakeEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intake_entries_total",
		Help:      "Total number of log entries recorded, by kind.",
	},
	[]string{"kind"},
)

// IntakeMillilitersTotal sums the positive amounts recorded as drinks.
var IntakeMillilitersTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intake_milliliters_total",
		Help:      "Total millilitres of water recorded as drinks.",
	},
)

// DailyTarget tracks the current daily target in millilitres.
var DailyTarget = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "daily_target_milliliters",
		Help:      "Current daily hydration target.",
	},
)

// ── Target policy metrics ─────────────────────────────────────────────────────

// TargetBumpsTotal counts target increases.
// Label:
//   - source: "heat" or "activity"
var TargetBumpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "target_bumps_total",
		Help:      "Total number of daily target bonuses granted, by source.",
	},
	[]string{"source"},
)

// TargetSetsTotal counts targets replaced outright rather than bumped.
// Label:
//   - source: "onboarding" or "manual"
var TargetSetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "target_sets_total",
		Help:      "Total number of daily target overrides, by source.",
	},
	[]string{"source"},
)

// WeatherLookupsTotal counts weather refreshes.
// Label:
//   - status: "ok", "permission_denied", or "unavailable"
var WeatherLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "weather_lookups_total",
		Help:      "Total number of weather context refreshes, by outcome.",
	},
	[]string{"status"},
)

// ── Persistence metrics ───────────────────────────────────────────────────────

// PersistWritesTotal counts snapshot writes.
// Label:
//   - result: "ok" or "error"
var PersistWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persist_writes_total",
		Help:      "Total number of snapshot writes attempted, by result.",
	},
	[]string{"result"},
)

// PersistWriteDuration measures a single snapshot write.
var PersistWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "persist_write_duration_seconds",
		Help:      "Duration of a single snapshot write to the backing store.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// PersistHealthy is 1 while the last snapshot write succeeded, 0 otherwise.
var PersistHealthy = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "persist_healthy",
		Help:      "Whether the last snapshot write succeeded (1) or failed (0).",
	},
)
