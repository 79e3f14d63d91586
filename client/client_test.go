package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mnerrors "github.com/minutehq/minute-cli/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, &Options{
		Timeout: 5 * time.Second,
		Token:   "test-token",
		UserID:  "user-1",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestNewValidatesBaseURL(t *testing.T) {
	cases := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"valid http", "http://localhost:8000", false},
		{"valid https with trailing slash", "https://api.example.com/", false},
		{"missing scheme", "localhost:8000", true},
		{"empty", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.baseURL, nil)
			if (err != nil) != tc.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tc.baseURL, err, tc.wantErr)
			}
		})
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(Meeting{ID: "m1"})
	}))

	if _, err := c.GetMeeting(context.Background(), "m1"); err != nil {
		t.Fatalf("GetMeeting: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-token")
	}
}

func TestAPIErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		detail     string
		wantTarget error
	}{
		{"not found", http.StatusNotFound, "Meeting not found", mnerrors.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, "Not authenticated", mnerrors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, "Only the host can end the meeting", mnerrors.ErrUnauthorized},
		{"validation", http.StatusBadRequest, "Meeting already ended", mnerrors.ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(map[string]string{"detail": tc.detail})
			}))

			_, err := c.GetMeeting(context.Background(), "m1")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tc.wantTarget) {
				t.Errorf("errors.Is(%v, %v) = false", err, tc.wantTarget)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Detail != tc.detail {
				t.Errorf("Detail = %q, want %q", apiErr.Detail, tc.detail)
			}
		})
	}
}

func TestAPIErrorWithoutDetailBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.GetMeeting(context.Background(), "m1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if errors.Is(err, mnerrors.ErrNotFound) {
		t.Error("500 must not map to ErrNotFound")
	}
}

func TestGetMeeting(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/meetings/m1" {
			t.Errorf("path = %q, want /api/meetings/m1", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Meeting{
			ID:              "m1",
			MeetingTitle:    "Weekly sync",
			HostID:          "host-1",
			Status:          StatusActive,
			TranscriptCount: 3,
			AudioFiles: []AudioFile{
				{ID: "a1", FilePath: "audio/m1/a1.webm", FileSize: 2048},
			},
		})
	}))

	meeting, err := c.GetMeeting(context.Background(), "m1")
	if err != nil {
		t.Fatalf("GetMeeting: %v", err)
	}
	if meeting.MeetingTitle != "Weekly sync" {
		t.Errorf("MeetingTitle = %q", meeting.MeetingTitle)
	}
	if meeting.Status != StatusActive {
		t.Errorf("Status = %q, want active", meeting.Status)
	}
	if len(meeting.AudioFiles) != 1 || meeting.AudioFiles[0].ID != "a1" {
		t.Errorf("AudioFiles = %+v", meeting.AudioFiles)
	}
}

func TestCreateMeetingValidation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	if _, err := c.CreateMeeting(context.Background(), &CreateMeetingRequest{HostID: "h1"}); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := c.CreateMeeting(context.Background(), &CreateMeetingRequest{MeetingTitle: "t"}); err == nil {
		t.Error("expected error for missing host id")
	}
}

func TestCreateMeeting(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/meetings/create" {
			t.Errorf("%s %s, want POST /api/meetings/create", r.Method, r.URL.Path)
		}
		var req CreateMeetingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.MeetingTitle != "Planning" {
			t.Errorf("meeting_title = %q", req.MeetingTitle)
		}
		json.NewEncoder(w).Encode(Meeting{ID: "m-new", MeetingTitle: req.MeetingTitle, HostID: req.HostID, Status: StatusWaiting})
	}))

	meeting, err := c.CreateMeeting(context.Background(), &CreateMeetingRequest{
		MeetingTitle: "Planning",
		HostID:       "host-1",
	})
	if err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}
	if meeting.ID != "m-new" {
		t.Errorf("ID = %q, want m-new", meeting.ID)
	}
}

func TestListTranscripts(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/meetings/m1/transcripts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]TranscriptEntry{
			{ID: "t1", SpeakerName: "Alice", TranscriptText: "hello", TimestampSeconds: 1.5, Confidence: 0.92},
			{ID: "t2", SpeakerName: "Bob", TranscriptText: "hi", TimestampSeconds: 3.0, Confidence: 0.88},
		})
	}))

	entries, err := c.ListTranscripts(context.Background(), "m1")
	if err != nil {
		t.Fatalf("ListTranscripts: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].SpeakerName != "Alice" || entries[1].TranscriptText != "hi" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestEndMeeting(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/meetings/m1/end" {
			t.Errorf("%s %s, want POST /api/meetings/m1/end", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(Meeting{ID: "m1", Status: StatusEnded})
	}))

	meeting, err := c.EndMeeting(context.Background(), "m1")
	if err != nil {
		t.Fatalf("EndMeeting: %v", err)
	}
	if meeting.Status != StatusEnded {
		t.Errorf("Status = %q, want ended", meeting.Status)
	}
}

func TestContextCancellation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.GetMeeting(ctx, "m1"); err == nil {
		t.Error("expected error for canceled context")
	}
}
