// This file contains the mock API used by command tests.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/minutehq/minute-cli/client"
	"github.com/minutehq/minute-cli/config"
	mnerrors "github.com/minutehq/minute-cli/pkg/errors"
)

const testMeetingID = "3f9f6a3e-8f0a-4a8d-9c2b-6a1d6f4f2b10"

// mockAPI is an in-memory MeetingAPI for command tests.
type mockAPI struct {
	meetings    map[string]*client.Meeting
	transcripts map[string][]client.TranscriptEntry
	summaries   map[string]*client.Summary

	// Failure toggles.
	failGetMeeting  bool
	failGetSummary  bool
	failGenerate    bool
	failUpload      bool
	failEndMeeting  bool

	// Call counters.
	generateCalls int
	uploadCalls   int
}

func newMockAPI() *mockAPI {
	return &mockAPI{
		meetings: map[string]*client.Meeting{
			testMeetingID: {
				ID:                testMeetingID,
				MeetingTitle:      "Weekly sync",
				HostID:            "user-1",
				Status:            client.StatusActive,
				ParticipantsCount: 2,
			},
		},
		transcripts: map[string][]client.TranscriptEntry{
			testMeetingID: {
				{ID: "t1", SpeakerName: "Alice", TranscriptText: "hello", TimestampSeconds: 1},
				{ID: "t2", SpeakerName: "Bob", TranscriptText: "hi there", TimestampSeconds: 4},
			},
		},
		summaries: map[string]*client.Summary{},
	}
}

func (m *mockAPI) CreateMeeting(ctx context.Context, req *client.CreateMeetingRequest) (*client.Meeting, error) {
	meeting := &client.Meeting{
		ID:           testMeetingID,
		MeetingTitle: req.MeetingTitle,
		HostID:       req.HostID,
		Status:       client.StatusWaiting,
	}
	m.meetings[meeting.ID] = meeting
	return meeting, nil
}

func (m *mockAPI) GetMeeting(ctx context.Context, meetingID string) (*client.Meeting, error) {
	if m.failGetMeeting {
		return nil, fmt.Errorf("mock: get meeting failed")
	}
	meeting, ok := m.meetings[meetingID]
	if !ok {
		return nil, mnerrors.ErrNotFound
	}
	return meeting, nil
}

func (m *mockAPI) ListUserMeetings(ctx context.Context, userID string) ([]client.Meeting, error) {
	var out []client.Meeting
	for _, meeting := range m.meetings {
		out = append(out, *meeting)
	}
	return out, nil
}

func (m *mockAPI) JoinMeeting(ctx context.Context, req *client.JoinMeetingRequest) (*client.Meeting, error) {
	meeting, ok := m.meetings[req.MeetingID]
	if !ok {
		return nil, mnerrors.ErrNotFound
	}
	meeting.ParticipantsCount++
	return meeting, nil
}

func (m *mockAPI) LeaveMeeting(ctx context.Context, meetingID, userID string) error {
	if _, ok := m.meetings[meetingID]; !ok {
		return mnerrors.ErrNotFound
	}
	return nil
}

func (m *mockAPI) EndMeeting(ctx context.Context, meetingID string) (*client.Meeting, error) {
	if m.failEndMeeting {
		return nil, fmt.Errorf("mock: only the host can end the meeting")
	}
	meeting, ok := m.meetings[meetingID]
	if !ok {
		return nil, mnerrors.ErrNotFound
	}
	meeting.Status = client.StatusEnded
	return meeting, nil
}

func (m *mockAPI) ListTranscripts(ctx context.Context, meetingID string) ([]client.TranscriptEntry, error) {
	return m.transcripts[meetingID], nil
}

func (m *mockAPI) UploadAudio(ctx context.Context, meetingID, userID, filename string, r io.Reader) (*client.UploadResult, error) {
	m.uploadCalls++
	if m.failUpload {
		return nil, mnerrors.NewUploadError("Unsupported audio format", nil)
	}
	data, _ := io.ReadAll(r)
	meeting := m.meetings[meetingID]
	if meeting != nil {
		meeting.AudioFiles = append(meeting.AudioFiles, client.AudioFile{
			ID:       fmt.Sprintf("a%d", m.uploadCalls),
			FileSize: int64(len(data)),
		})
	}
	return &client.UploadResult{
		FileID:   fmt.Sprintf("a%d", m.uploadCalls),
		FilePath: "audio/" + meetingID + "/rec.webm",
		FileSize: int64(len(data)),
		Format:   "webm",
	}, nil
}

func (m *mockAPI) GetSummary(ctx context.Context, meetingID string) (*client.Summary, error) {
	if m.failGetSummary {
		return nil, fmt.Errorf("mock: connection refused")
	}
	s, ok := m.summaries[meetingID]
	if !ok {
		return nil, mnerrors.ErrNotFound
	}
	return s, nil
}

func (m *mockAPI) GenerateSummary(ctx context.Context, meetingID string) (*client.Summary, error) {
	m.generateCalls++
	if m.failGenerate {
		return nil, fmt.Errorf("mock: model unavailable")
	}
	s := &client.Summary{
		MeetingID:   meetingID,
		SummaryText: "Generated summary.",
		ActionItems: []string{"Follow up"},
	}
	m.summaries[meetingID] = s
	return s, nil
}

// testDeps wires the mock into command deps.
func testDeps(api *mockAPI) *Deps {
	return &Deps{
		Config: config.DefaultConfig(),
		NewAPI: func(cfg *config.CLIConfig) (MeetingAPI, string, error) {
			return api, "user-1", nil
		},
	}
}
