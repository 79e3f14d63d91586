package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the name of the tracer for session operations.
	TracerName = "minute-cli"
)

// Span attribute keys
const (
	AttrMeetingID   = "meeting_id"
	AttrUserID      = "user_id"
	AttrTranscripts = "transcript_count"
	AttrAudioFiles  = "audio_file_count"
	AttrFileBytes   = "file_bytes"
	AttrState       = "state"
)

// Span names
const (
	SpanPollCycle       = "session.poll_cycle"
	SpanForcedRefresh   = "session.forced_refresh"
	SpanAudioUpload     = "session.audio_upload"
	SpanEndMeeting      = "session.end_meeting"
	SpanSummaryAcquire  = "summary.acquire"
	SpanSummaryGenerate = "summary.generate"
)

// Tracer provides tracing for session and summary operations. When no trace
// provider is installed the otel global falls back to a no-op, so the wrapper
// is safe to use unconditionally.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new session tracer from the global provider.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(TracerName),
	}
}

// Start begins a span with the given name and meeting id attribute.
func (t *Tracer) Start(ctx context.Context, name, meetingID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String(AttrMeetingID, meetingID)))
}

// End finishes the span, recording err as the span status when non-nil.
func (t *Tracer) End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// SetInt sets an integer attribute on the span.
func (t *Tracer) SetInt(span trace.Span, key string, value int) {
	span.SetAttributes(attribute.Int(key, value))
}

// SetString sets a string attribute on the span.
func (t *Tracer) SetString(span trace.Span, key, value string) {
	span.SetAttributes(attribute.String(key, value))
}
