// Package summary turns the collaborator's two summary endpoints into a
// single converging view: read the stored summary if one exists, generate
// one when it does not, and report transport failures without triggering
// generation.
package summary

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/minutehq/minute-cli/client"
	mnerrors "github.com/minutehq/minute-cli/pkg/errors"
	"github.com/minutehq/minute-cli/pkg/logging"
	"github.com/minutehq/minute-cli/pkg/observability"
)

// State describes where a summary view is in its lifecycle.
type State string

const (
	// StateLoading is the initial state while the stored summary is read.
	StateLoading State = "loading"
	// StateGenerating means no stored summary existed and generation is
	// running.
	StateGenerating State = "generating"
	// StateReady is terminal: the view carries a summary.
	StateReady State = "ready"
	// StateEmpty is terminal: no summary could be produced. Err carries
	// the cause when there was one.
	StateEmpty State = "empty"
)

// Terminal reports whether the state ends the view sequence.
func (s State) Terminal() bool {
	return s == StateReady || s == StateEmpty
}

// View is one emission of the summary lifecycle. The sequence always ends
// in a terminal state, after which the channel closes.
type View struct {
	State       State
	Summary     *client.Summary
	Transcripts []client.TranscriptEntry
	Err         error
}

// API is the subset of the meeting client the acquirer needs.
type API interface {
	GetSummary(ctx context.Context, meetingID string) (*client.Summary, error)
	GenerateSummary(ctx context.Context, meetingID string) (*client.Summary, error)
	ListTranscripts(ctx context.Context, meetingID string) ([]client.TranscriptEntry, error)
}

// Options configures an Acquirer.
type Options struct {
	Logger  logging.Logger
	Metrics *observability.SessionMetrics
	Tracer  *observability.Tracer
}

// Acquirer drives summary acquisition for ended meetings. At most one
// generation runs at a time across all views; concurrent attempts are
// rejected with ErrGenerationInFlight.
type Acquirer struct {
	api        API
	logger     logging.Logger
	metrics    *observability.SessionMetrics
	tracer     *observability.Tracer
	generating atomic.Bool
}

// NewAcquirer creates an acquirer over the given API.
func NewAcquirer(api API, opts *Options) *Acquirer {
	if opts == nil {
		opts = &Options{}
	}
	a := &Acquirer{
		api:     api,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
	}
	if a.logger == nil {
		a.logger = logging.NewNopLogger()
	}
	if a.tracer == nil {
		a.tracer = observability.NewTracer()
	}
	return a
}

// Acquire starts the summary lifecycle for a meeting and returns the channel
// of views. The sequence is loading, then either ready (stored summary
// found), generating followed by ready or empty (no stored summary), or
// empty with the read error attached (transport failure). A read failure is
// never treated as "missing": generation only runs when the collaborator
// positively reported that no summary exists.
//
// Generation invalidates the transcript list read at the start (the
// collaborator may have transcribed more audio in the meantime), so a
// successful generation re-reads the transcripts before the ready view.
func (a *Acquirer) Acquire(ctx context.Context, meetingID string) <-chan View {
	views := make(chan View, 4)

	go func() {
		defer close(views)

		spanCtx, span := a.tracer.Start(ctx, observability.SpanSummaryAcquire, meetingID)

		transcripts, err := a.api.ListTranscripts(spanCtx, meetingID)
		if err != nil {
			a.logger.Warn("transcript read failed, continuing without",
				logging.F("meeting_id", meetingID), logging.Err(err))
			transcripts = nil
		}

		views <- View{State: StateLoading, Transcripts: transcripts}

		stored, err := a.api.GetSummary(spanCtx, meetingID)
		switch {
		case err == nil:
			a.countFetch(observability.OutcomeOK)
			a.tracer.SetString(span, observability.AttrState, string(StateReady))
			a.tracer.End(span, nil)
			views <- View{State: StateReady, Summary: stored, Transcripts: transcripts}
			return

		case mnerrors.IsNotFound(err):
			a.countFetch(observability.OutcomeNotFound)
			views <- View{State: StateGenerating, Transcripts: transcripts}

			generated, genErr := a.generate(spanCtx, meetingID)
			if genErr != nil {
				a.tracer.SetString(span, observability.AttrState, string(StateEmpty))
				a.tracer.End(span, genErr)
				views <- View{State: StateEmpty, Transcripts: transcripts, Err: genErr}
				return
			}
			if fresh, err := a.api.ListTranscripts(spanCtx, meetingID); err == nil {
				transcripts = fresh
			} else {
				a.logger.Warn("transcript re-read after generation failed, keeping earlier list",
					logging.F("meeting_id", meetingID), logging.Err(err))
			}
			a.tracer.SetString(span, observability.AttrState, string(StateReady))
			a.tracer.End(span, nil)
			views <- View{State: StateReady, Summary: generated, Transcripts: transcripts}
			return

		default:
			a.countFetch(observability.OutcomeError)
			a.logger.Error("summary read failed",
				logging.F("meeting_id", meetingID), logging.Err(err))
			a.tracer.SetString(span, observability.AttrState, string(StateEmpty))
			a.tracer.End(span, err)
			views <- View{State: StateEmpty, Transcripts: transcripts, Err: err}
			return
		}
	}()

	return views
}

// Regenerate requests a fresh summary without re-reading the stored one.
// It returns ErrGenerationInFlight when a generation is already running.
func (a *Acquirer) Regenerate(ctx context.Context, meetingID string) (*client.Summary, error) {
	return a.generate(ctx, meetingID)
}

// generate runs one guarded generation. The guard spans the whole call so
// two generations never run concurrently.
func (a *Acquirer) generate(ctx context.Context, meetingID string) (*client.Summary, error) {
	if !a.generating.CompareAndSwap(false, true) {
		if a.metrics != nil {
			a.metrics.GenerationsTotal.WithLabelValues(observability.OutcomeRejected).Inc()
		}
		return nil, mnerrors.ErrGenerationInFlight
	}
	defer a.generating.Store(false)

	start := time.Now()
	spanCtx, span := a.tracer.Start(ctx, observability.SpanSummaryGenerate, meetingID)

	generated, err := a.api.GenerateSummary(spanCtx, meetingID)
	if err != nil {
		a.logger.Error("summary generation failed",
			logging.F("meeting_id", meetingID), logging.Err(err))
		a.countGeneration(observability.OutcomeError, time.Since(start))
		a.tracer.End(span, err)
		return nil, &mnerrors.GenerationError{MeetingID: meetingID, Err: err}
	}

	a.logger.Info("summary generated",
		logging.F("meeting_id", meetingID),
		logging.F("action_items", len(generated.ActionItems)))
	a.countGeneration(observability.OutcomeOK, time.Since(start))
	a.tracer.End(span, nil)
	return generated, nil
}

func (a *Acquirer) countFetch(outcome string) {
	if a.metrics != nil {
		a.metrics.SummaryFetchesTotal.WithLabelValues(outcome).Inc()
	}
}

func (a *Acquirer) countGeneration(outcome string, elapsed time.Duration) {
	if a.metrics == nil {
		return
	}
	a.metrics.GenerationsTotal.WithLabelValues(outcome).Inc()
	a.metrics.GenerationSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
