package session

import (
	"context"
	"time"

	"github.com/minutehq/minute-cli/client"
	mnerrors "github.com/minutehq/minute-cli/pkg/errors"
)

// Fetcher reads one complete snapshot of a meeting's remote state.
type Fetcher interface {
	Fetch(ctx context.Context, meetingID string) (Snapshot, error)
}

// MeetingReader is the subset of the API client the fetcher needs.
type MeetingReader interface {
	GetMeeting(ctx context.Context, meetingID string) (*client.Meeting, error)
	ListTranscripts(ctx context.Context, meetingID string) ([]client.TranscriptEntry, error)
}

// ClientFetcher reads snapshots from the meeting API. The meeting detail and
// the transcript list are separate endpoints; a snapshot combines one read
// of each.
type ClientFetcher struct {
	reader MeetingReader
}

// NewClientFetcher creates a fetcher backed by the given API client.
func NewClientFetcher(reader MeetingReader) *ClientFetcher {
	return &ClientFetcher{reader: reader}
}

// Fetch reads the meeting detail and its transcripts. A failure in either
// read fails the whole fetch; a snapshot is never built from one half.
func (f *ClientFetcher) Fetch(ctx context.Context, meetingID string) (Snapshot, error) {
	meeting, err := f.reader.GetMeeting(ctx, meetingID)
	if err != nil {
		return Snapshot{}, mnerrors.NewFetchError("meeting", err)
	}

	transcripts, err := f.reader.ListTranscripts(ctx, meetingID)
	if err != nil {
		return Snapshot{}, mnerrors.NewFetchError("transcripts", err)
	}

	return Snapshot{
		Meeting:     meeting,
		Transcripts: transcripts,
		FetchedAt:   time.Now(),
	}, nil
}
