package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateMeeting creates a new meeting hosted by req.HostID.
func (c *Client) CreateMeeting(ctx context.Context, req *CreateMeetingRequest) (*Meeting, error) {
	if req.MeetingTitle == "" {
		return nil, fmt.Errorf("meeting title is required")
	}
	if req.HostID == "" {
		return nil, fmt.Errorf("host id is required")
	}

	var meeting Meeting
	if err := c.doJSON(ctx, http.MethodPost, "/api/meetings/create", req, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// GetMeeting fetches the current state of a meeting.
func (c *Client) GetMeeting(ctx context.Context, meetingID string) (*Meeting, error) {
	var meeting Meeting
	path := "/api/meetings/" + url.PathEscape(meetingID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// ListUserMeetings lists meetings the user hosts or has joined.
func (c *Client) ListUserMeetings(ctx context.Context, userID string) ([]Meeting, error) {
	var meetings []Meeting
	path := "/api/meetings/user/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// JoinMeeting adds the user to a meeting's participants.
func (c *Client) JoinMeeting(ctx context.Context, req *JoinMeetingRequest) (*Meeting, error) {
	var meeting Meeting
	if err := c.doJSON(ctx, http.MethodPost, "/api/meetings/join", req, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// LeaveMeeting removes the user from a meeting's participants.
func (c *Client) LeaveMeeting(ctx context.Context, meetingID, userID string) error {
	path := "/api/meetings/" + url.PathEscape(meetingID) + "/leave"
	body := map[string]string{"user_id": userID}
	return c.doJSON(ctx, http.MethodPost, path, body, nil)
}

// EndMeeting ends a meeting. Only the host may end a meeting; the
// collaborator enforces this and responds with a validation error otherwise.
func (c *Client) EndMeeting(ctx context.Context, meetingID string) (*Meeting, error) {
	var meeting Meeting
	path := "/api/meetings/" + url.PathEscape(meetingID) + "/end"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// ListTranscripts returns the full transcript list for a meeting, ordered
// by timestamp.
func (c *Client) ListTranscripts(ctx context.Context, meetingID string) ([]TranscriptEntry, error) {
	var entries []TranscriptEntry
	path := "/api/meetings/" + url.PathEscape(meetingID) + "/transcripts"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
