package session

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/minutehq/minute-cli/client"
	mnerrors "github.com/minutehq/minute-cli/pkg/errors"
	"github.com/minutehq/minute-cli/pkg/logging"
	"github.com/minutehq/minute-cli/pkg/observability"
)

// AudioSender is the subset of the API client the uploader needs.
type AudioSender interface {
	UploadAudio(ctx context.Context, meetingID, userID, filename string, r io.Reader) (*client.UploadResult, error)
}

// UploaderOptions configures an Uploader.
type UploaderOptions struct {
	Logger  logging.Logger
	Metrics *observability.SessionMetrics
	Tracer  *observability.Tracer
}

// Uploader coordinates audio uploads for a session. At most one upload may
// be in flight at a time; concurrent attempts are rejected without touching
// the network. After a successful upload it forces an immediate snapshot
// refresh so the new file shows up before the next scheduled poll.
type Uploader struct {
	sender   AudioSender
	fetcher  Fetcher
	store    *Store
	logger   logging.Logger
	metrics  *observability.SessionMetrics
	tracer   *observability.Tracer
	inFlight atomic.Bool
}

// NewUploader creates an uploader that sends through sender and refreshes
// store via fetcher after each successful upload.
func NewUploader(sender AudioSender, fetcher Fetcher, store *Store, opts *UploaderOptions) *Uploader {
	if opts == nil {
		opts = &UploaderOptions{}
	}
	u := &Uploader{
		sender:  sender,
		fetcher: fetcher,
		store:   store,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
	}
	if u.logger == nil {
		u.logger = logging.NewNopLogger()
	}
	if u.tracer == nil {
		u.tracer = observability.NewTracer()
	}
	return u
}

// InFlight reports whether an upload is currently in progress.
func (u *Uploader) InFlight() bool {
	return u.inFlight.Load()
}

// Upload sends an audio recording for the meeting. If another upload is in
// flight it returns ErrUploadInFlight immediately. The in-flight flag is
// cleared on every exit path, success or failure, so a failed upload never
// wedges the session.
//
// A refresh failure after a successful upload is logged and swallowed: the
// upload succeeded and the next poll cycle will pick the file up anyway.
func (u *Uploader) Upload(ctx context.Context, meetingID, userID, filename string, r io.Reader) (*client.UploadResult, error) {
	if !u.inFlight.CompareAndSwap(false, true) {
		if u.metrics != nil {
			u.metrics.UploadsTotal.WithLabelValues(observability.OutcomeRejected).Inc()
		}
		return nil, mnerrors.ErrUploadInFlight
	}
	defer u.inFlight.Store(false)

	start := time.Now()
	spanCtx, span := u.tracer.Start(ctx, observability.SpanAudioUpload, meetingID)
	u.tracer.SetString(span, observability.AttrUserID, userID)

	result, err := u.sender.UploadAudio(spanCtx, meetingID, userID, filename, r)
	if err != nil {
		u.logger.Error("audio upload failed",
			logging.F("meeting_id", meetingID), logging.Err(err))
		u.observe(observability.OutcomeError, time.Since(start))
		u.tracer.End(span, err)
		return nil, err
	}

	u.logger.Info("audio uploaded",
		logging.F("meeting_id", meetingID),
		logging.F("file_id", result.FileID),
		logging.F("file_size", result.FileSize))
	u.observe(observability.OutcomeOK, time.Since(start))
	u.tracer.SetInt(span, observability.AttrFileBytes, int(result.FileSize))
	u.tracer.End(span, nil)

	u.forceRefresh(ctx, meetingID)

	return result, nil
}

// forceRefresh fetches a fresh snapshot right away instead of waiting for
// the next poll cycle.
func (u *Uploader) forceRefresh(ctx context.Context, meetingID string) {
	spanCtx, span := u.tracer.Start(ctx, observability.SpanForcedRefresh, meetingID)

	snap, err := u.fetcher.Fetch(spanCtx, meetingID)
	if err != nil {
		u.logger.Warn("post-upload refresh failed, next poll will catch up",
			logging.F("meeting_id", meetingID), logging.Err(err))
		if u.metrics != nil {
			u.metrics.ForcedRefreshes.WithLabelValues(observability.OutcomeError).Inc()
		}
		u.tracer.End(span, err)
		return
	}

	u.store.Replace(snap)
	if u.metrics != nil {
		u.metrics.ForcedRefreshes.WithLabelValues(observability.OutcomeOK).Inc()
	}
	u.tracer.SetInt(span, observability.AttrAudioFiles, snap.AudioFileCount())
	u.tracer.End(span, nil)
}

func (u *Uploader) observe(outcome string, elapsed time.Duration) {
	if u.metrics == nil {
		return
	}
	u.metrics.UploadsTotal.WithLabelValues(outcome).Inc()
	u.metrics.UploadSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
