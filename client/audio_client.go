package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	mnerrors "github.com/minutehq/minute-cli/pkg/errors"
)

// UploadAudio uploads an audio recording for a meeting as multipart
// form data. The file contents are read from r; filename is used for the
// multipart part and lets the collaborator infer the format.
//
// Failures are returned as *UploadError so callers get the collaborator's
// detail message when one was provided.
func (c *Client) UploadAudio(ctx context.Context, meetingID, userID, filename string, r io.Reader) (*UploadResult, error) {
	if meetingID == "" {
		return nil, fmt.Errorf("meeting id is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	q := url.Values{}
	q.Set("meeting_id", meetingID)
	q.Set("user_id", userID)

	reqURL := c.baseURL + "/api/audio/upload?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, pr)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result UploadResult
	if err := c.send(req, &result); err != nil {
		if apiErr, ok := err.(*APIError); ok {
			return nil, mnerrors.NewUploadError(apiErr.Detail, apiErr)
		}
		return nil, mnerrors.NewUploadError("", err)
	}
	return &result, nil
}
