// Package metrics provides Prometheus metrics for the watch loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "alphaterm"

// Watch loop metrics
var (
	// PollCyclesTotal counts completed poll cycles by outcome.
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "poll_cycles_total",
			Help:      "Total poll cycles by outcome",
		},
		[]string{"outcome"},
	)

	// AlertsSurfacedTotal counts alerts surfaced to the user.
	AlertsSurfacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "alerts_surfaced_total",
			Help:      "Total new alerts surfaced this session",
		},
	)

	// LedgerSize tracks the dedup ledger cardinality.
	LedgerSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "ledger_size",
			Help:      "Number of alert IDs in the dedup ledger",
		},
	)
)

// Sink metrics
var (
	// SinkWritesTotal counts sink writes by sink name.
	SinkWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "writes_total",
			Help:      "Total alerts written per sink",
		},
		[]string{"sink"},
	)

	// SinkErrorsTotal counts sink write failures by sink name.
	SinkErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "errors_total",
			Help:      "Total sink write failures per sink",
		},
		[]string{"sink"},
	)
)

// Outcome labels for PollCyclesTotal.
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)
