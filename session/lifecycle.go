package session

import (
	"context"
	"time"

	"github.com/minutehq/minute-cli/client"
	"github.com/minutehq/minute-cli/pkg/logging"
	"github.com/minutehq/minute-cli/pkg/observability"
)

// MeetingEnder is the subset of the API client the lifecycle needs.
type MeetingEnder interface {
	EndMeeting(ctx context.Context, meetingID string) (*client.Meeting, error)
}

// LifecycleOptions configures a Lifecycle.
type LifecycleOptions struct {
	Logger logging.Logger
	Tracer *observability.Tracer
}

// Lifecycle confirms meeting state transitions with the collaborator before
// they reach the local replica. There is no optimistic flip: a failed end
// request leaves the replica exactly as it was.
type Lifecycle struct {
	ender  MeetingEnder
	store  *Store
	logger logging.Logger
	tracer *observability.Tracer
}

// NewLifecycle creates a lifecycle coordinator over store.
func NewLifecycle(ender MeetingEnder, store *Store, opts *LifecycleOptions) *Lifecycle {
	if opts == nil {
		opts = &LifecycleOptions{}
	}
	l := &Lifecycle{
		ender:  ender,
		store:  store,
		logger: opts.Logger,
		tracer: opts.Tracer,
	}
	if l.logger == nil {
		l.logger = logging.NewNopLogger()
	}
	if l.tracer == nil {
		l.tracer = observability.NewTracer()
	}
	return l
}

// End asks the collaborator to end the meeting and, on confirmation,
// installs the ended meeting into the replica while keeping the transcripts
// already synced.
func (l *Lifecycle) End(ctx context.Context, meetingID string) (*client.Meeting, error) {
	spanCtx, span := l.tracer.Start(ctx, observability.SpanEndMeeting, meetingID)

	meeting, err := l.ender.EndMeeting(spanCtx, meetingID)
	if err != nil {
		l.logger.Error("end meeting failed",
			logging.F("meeting_id", meetingID), logging.Err(err))
		l.tracer.End(span, err)
		return nil, err
	}

	snap, _ := l.store.Get()
	snap.Meeting = meeting
	snap.FetchedAt = time.Now()
	l.store.Replace(snap)

	l.logger.Info("meeting ended",
		logging.F("meeting_id", meetingID),
		logging.F("status", meeting.Status))
	l.tracer.SetString(span, observability.AttrState, meeting.Status)
	l.tracer.End(span, nil)

	return meeting, nil
}
