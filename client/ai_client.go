package client

import (
	"context"
	"net/http"
	"net/url"
)

// GetSummary fetches a previously generated summary for a meeting. When no
// summary has been generated yet the collaborator responds 404, which maps
// to ErrNotFound.
func (c *Client) GetSummary(ctx context.Context, meetingID string) (*Summary, error) {
	var summary Summary
	path := "/api/ai/summary/" + url.PathEscape(meetingID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GenerateSummary synchronously generates a summary for a meeting. The call
// blocks until generation completes; the client's request timeout bounds it.
func (c *Client) GenerateSummary(ctx context.Context, meetingID string) (*Summary, error) {
	var summary Summary
	req := &GenerateSummaryRequest{MeetingID: meetingID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/ai/summarize", req, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
