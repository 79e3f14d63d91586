// Package client provides the HTTP client for the Minute meeting API.
// It handles authentication, request encoding, and error mapping; the
// session and summary packages build their workflows on top of it.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	mnerrors "github.com/minutehq/minute-cli/pkg/errors"
)

// Default client settings.
const (
	DefaultTimeout = 30 * time.Second
)

// Options configures the Client behavior.
type Options struct {
	// Timeout is the per-request timeout. Synchronous summary generation
	// is the slowest call and bounds this value in practice.
	Timeout time.Duration

	// Token is the bearer token attached to every request.
	Token string

	// UserID identifies the caller; required for audio uploads.
	UserID string

	// InsecureSkipVerify disables TLS certificate verification
	// (for development only).
	InsecureSkipVerify bool
}

// DefaultOptions returns Options with default values.
func DefaultOptions() *Options {
	return &Options{
		Timeout: DefaultTimeout,
	}
}

// Client is an authenticated HTTP client for the Minute API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	options    *Options
}

// New creates a Client for the API at baseURL. A trailing slash on baseURL
// is tolerated.
func New(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", baseURL)
	}

	transport := http.DefaultTransport
	if opts.InsecureSkipVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		options: opts,
	}, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UserID returns the configured user id.
func (c *Client) UserID() string {
	return c.options.UserID
}

// Health checks the server's health endpoint and returns the reported
// status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError carries a non-2xx collaborator response. Detail is the server's
// "detail" field when present.
type APIError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (HTTP %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error (HTTP %d)", e.StatusCode)
}

// Unwrap maps well-known status codes onto domain sentinels so callers can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return mnerrors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return mnerrors.ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return mnerrors.ErrValidation
	default:
		return nil
	}
}

// errorDetail is the collaborator's error payload shape.
type errorDetail struct {
	Detail string `json:"detail"`
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out (when out is non-nil). Non-2xx responses are returned
// as *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// send authenticates and executes req, then decodes the response into out.
func (c *Client) send(req *http.Request, out interface{}) error {
	if c.options.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.options.Token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail errorDetail
		if json.Unmarshal(respBody, &detail) == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
