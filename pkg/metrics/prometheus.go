// Package metrics provides Prometheus metrics for the scoring batch jobs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages the Prometheus metrics for the scoring core.
type Manager struct {
	namespace string
	subsystem string
	enabled   bool
	registry  *prometheus.Registry

	racesScored             prometheus.Counter
	adjustmentsComputed     prometheus.Counter
	adjustmentsInsufficient prometheus.Counter
	seedTimesUpdated        prometheus.Counter
	teamRecordsBuilt        prometheus.Counter
	standingsBuilt          prometheus.Counter
	outcomeUpserts          prometheus.Counter
	outcomeDeletes          prometheus.Counter
	scoringDurationMS       prometheus.Histogram
	adjustmentDurationMS    prometheus.Histogram
	lastBatchCompletedUnix  prometheus.Gauge
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "harrier",
		subsystem: "scoring",
		enabled:   true,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.racesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "races_scored_total",
		Help:      "Total number of races scored",
	})
	m.adjustmentsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "course_adjustments_computed_total",
		Help:      "Total number of course adjustment computations",
	})
	m.adjustmentsInsufficient = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "course_adjustments_insufficient_total",
		Help:      "Course adjustment computations that degraded to zero for lack of data",
	})
	m.seedTimesUpdated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seed_times_updated_total",
		Help:      "Total number of runner seed time updates",
	})
	m.teamRecordsBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_records_built_total",
		Help:      "Total number of team records built",
	})
	m.standingsBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "league_standings_built_total",
		Help:      "Total number of league standings builds",
	})
	m.outcomeUpserts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dual_outcome_upserts_total",
		Help:      "Total number of dual outcome rows upserted",
	})
	m.outcomeDeletes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dual_outcome_deletes_total",
		Help:      "Total number of races whose dual outcome rows were deleted",
	})
	m.scoringDurationMS = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "race_scoring_duration_milliseconds",
		Help:      "Histogram of race scoring duration in milliseconds",
		Buckets:   prometheus.DefBuckets,
	})
	m.adjustmentDurationMS = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "course_adjustment_duration_milliseconds",
		Help:      "Histogram of course adjustment duration in milliseconds",
		Buckets:   prometheus.DefBuckets,
	})
	m.lastBatchCompletedUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_batch_completed_unix",
		Help:      "Unix timestamp of the last completed batch recompute",
	})
}

// Registry returns the registry metrics are registered on, for serving.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RaceScored records one scored race and its duration.
func (m *Manager) RaceScored(d time.Duration) {
	if !m.enabled {
		return
	}
	m.racesScored.Inc()
	m.scoringDurationMS.Observe(float64(d.Milliseconds()))
}

// AdjustmentComputed records one adjustment computation; insufficient marks
// computations that degraded to zero.
func (m *Manager) AdjustmentComputed(d time.Duration, insufficient bool) {
	if !m.enabled {
		return
	}
	m.adjustmentsComputed.Inc()
	m.adjustmentDurationMS.Observe(float64(d.Milliseconds()))
	if insufficient {
		m.adjustmentsInsufficient.Inc()
	}
}

// SeedTimeUpdated records one seed time update.
func (m *Manager) SeedTimeUpdated() {
	if m.enabled {
		m.seedTimesUpdated.Inc()
	}
}

// TeamRecordBuilt records one team record build.
func (m *Manager) TeamRecordBuilt() {
	if m.enabled {
		m.teamRecordsBuilt.Inc()
	}
}

// StandingsBuilt records one league standings build.
func (m *Manager) StandingsBuilt() {
	if m.enabled {
		m.standingsBuilt.Inc()
	}
}

// OutcomeUpserted records one dual outcome upsert.
func (m *Manager) OutcomeUpserted() {
	if m.enabled {
		m.outcomeUpserts.Inc()
	}
}

// OutcomesDeleted records one race's outcome deletion.
func (m *Manager) OutcomesDeleted() {
	if m.enabled {
		m.outcomeDeletes.Inc()
	}
}

// BatchCompleted marks the completion time of a batch recompute.
func (m *Manager) BatchCompleted(at time.Time) {
	if m.enabled {
		m.lastBatchCompletedUnix.Set(float64(at.Unix()))
	}
}
