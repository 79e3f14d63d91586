// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the meeting-session workflow.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label values for operation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeStale    = "stale"
)

// SessionMetrics holds all Prometheus metrics for the session and summary
// workflows.
type SessionMetrics struct {
	// Polling metrics
	PollCyclesTotal  *prometheus.CounterVec
	PollCycleSeconds *prometheus.HistogramVec
	SnapshotEntries  *prometheus.GaugeVec

	// Upload metrics
	UploadsTotal    *prometheus.CounterVec
	UploadSeconds   *prometheus.HistogramVec
	ForcedRefreshes *prometheus.CounterVec

	// Summary metrics
	SummaryFetchesTotal *prometheus.CounterVec
	GenerationsTotal    *prometheus.CounterVec
	GenerationSeconds   *prometheus.HistogramVec
}

// DefaultSessionMetrics creates metrics on the default registerer.
func DefaultSessionMetrics() *SessionMetrics {
	return NewSessionMetrics(prometheus.DefaultRegisterer)
}

// NewSessionMetrics creates a new set of session metrics registered with reg.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	factory := promauto.With(reg)

	return &SessionMetrics{
		PollCyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minute_poll_cycles_total",
				Help: "Total poll cycles by outcome (ok, error, stale)",
			},
			[]string{"outcome"},
		),
		PollCycleSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minute_poll_cycle_seconds",
				Help:    "Poll cycle latency (both sub-fetches)",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"outcome"},
		),
		SnapshotEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "minute_snapshot_entries",
				Help: "Entries in the last applied snapshot by kind (transcripts, audio_files)",
			},
			[]string{"kind"},
		),

		UploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minute_audio_uploads_total",
				Help: "Total audio upload attempts by outcome (ok, error, rejected)",
			},
			[]string{"outcome"},
		),
		UploadSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minute_audio_upload_seconds",
				Help:    "Audio upload latency",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"outcome"},
		),
		ForcedRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minute_forced_refreshes_total",
				Help: "Out-of-band store refreshes triggered after uploads",
			},
			[]string{"outcome"},
		),

		SummaryFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minute_summary_fetches_total",
				Help: "Summary fetch attempts by outcome (ok, not_found, error)",
			},
			[]string{"outcome"},
		),
		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minute_summary_generations_total",
				Help: "Summary generation requests by outcome (ok, error, rejected)",
			},
			[]string{"outcome"},
		),
		GenerationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minute_summary_generation_seconds",
				Help:    "Synchronous summary generation latency",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		),
	}
}
