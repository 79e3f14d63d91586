package session

import (
	"context"
	"time"

	"github.com/minutehq/minute-cli/pkg/logging"
	"github.com/minutehq/minute-cli/pkg/observability"
)

// DefaultPollInterval is the interval between poll cycles when none is
// configured.
const DefaultPollInterval = 2 * time.Second

// PollerOptions configures a Poller. Zero-value fields fall back to
// defaults (interval) or no-ops (logger, metrics, tracer).
type PollerOptions struct {
	Interval time.Duration
	Logger   logging.Logger
	Metrics  *observability.SessionMetrics
	Tracer   *observability.Tracer
}

// Poller refreshes a Store from a Fetcher on a fixed interval. Cycles run
// sequentially; a slow fetch delays the next cycle rather than overlapping
// it.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   logging.Logger
	metrics  *observability.SessionMetrics
	tracer   *observability.Tracer
}

// NewPoller creates a poller reading snapshots from fetcher.
func NewPoller(fetcher Fetcher, opts *PollerOptions) *Poller {
	if opts == nil {
		opts = &PollerOptions{}
	}
	p := &Poller{
		fetcher:  fetcher,
		interval: opts.Interval,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
	}
	if p.interval <= 0 {
		p.interval = DefaultPollInterval
	}
	if p.logger == nil {
		p.logger = logging.NewNopLogger()
	}
	if p.tracer == nil {
		p.tracer = observability.NewTracer()
	}
	return p
}

// Handle controls one running poll loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop halts the loop and waits for it to exit. A fetch in flight when Stop
// is called has its result discarded; the store is not written after Stop
// returns. Stop is idempotent.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done returns a channel closed when the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start begins polling meetingID into store. The first cycle runs
// immediately, then one cycle per interval. Polling stops when ctx is
// canceled or Stop is called on the returned handle.
func (p *Poller) Start(ctx context.Context, meetingID string, store *Store) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)

		p.cycle(ctx, meetingID, store)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.cycle(ctx, meetingID, store)
			}
		}
	}()

	return h
}

// cycle performs one fetch and, unless the loop was stopped while the fetch
// was in flight, applies the result to the store. A failed fetch leaves the
// last good snapshot in place.
func (p *Poller) cycle(ctx context.Context, meetingID string, store *Store) {
	start := time.Now()
	spanCtx, span := p.tracer.Start(ctx, observability.SpanPollCycle, meetingID)

	snap, err := p.fetcher.Fetch(spanCtx, meetingID)
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Warn("poll cycle failed, keeping last snapshot",
			logging.F("meeting_id", meetingID), logging.Err(err))
		p.observe(observability.OutcomeError, elapsed)
		p.tracer.End(span, err)
		return
	}

	select {
	case <-ctx.Done():
		// Stopped while the fetch was in flight; the result is stale.
		p.observe(observability.OutcomeStale, elapsed)
		p.tracer.End(span, ctx.Err())
		return
	default:
	}

	store.Replace(snap)

	p.logger.Debug("snapshot applied",
		logging.F("meeting_id", meetingID),
		logging.F("transcripts", snap.TranscriptCount()),
		logging.F("audio_files", snap.AudioFileCount()))

	p.observe(observability.OutcomeOK, elapsed)
	if p.metrics != nil {
		p.metrics.SnapshotEntries.WithLabelValues("transcripts").Set(float64(snap.TranscriptCount()))
		p.metrics.SnapshotEntries.WithLabelValues("audio_files").Set(float64(snap.AudioFileCount()))
	}
	p.tracer.SetInt(span, observability.AttrTranscripts, snap.TranscriptCount())
	p.tracer.SetInt(span, observability.AttrAudioFiles, snap.AudioFileCount())
	p.tracer.End(span, nil)
}

func (p *Poller) observe(outcome string, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.PollCyclesTotal.WithLabelValues(outcome).Inc()
	p.metrics.PollCycleSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
