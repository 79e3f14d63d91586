// Package cmd provides CLI commands for the minute tool.
package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/minutehq/minute-cli/client"
	"github.com/minutehq/minute-cli/config"
	"github.com/minutehq/minute-cli/credentials"
	"github.com/minutehq/minute-cli/pkg/observability"
)

// MeetingAPI is the full client surface the commands use. Tests substitute
// a mock; production wires *client.Client.
type MeetingAPI interface {
	CreateMeeting(ctx context.Context, req *client.CreateMeetingRequest) (*client.Meeting, error)
	GetMeeting(ctx context.Context, meetingID string) (*client.Meeting, error)
	ListUserMeetings(ctx context.Context, userID string) ([]client.Meeting, error)
	JoinMeeting(ctx context.Context, req *client.JoinMeetingRequest) (*client.Meeting, error)
	LeaveMeeting(ctx context.Context, meetingID, userID string) error
	EndMeeting(ctx context.Context, meetingID string) (*client.Meeting, error)
	ListTranscripts(ctx context.Context, meetingID string) ([]client.TranscriptEntry, error)
	UploadAudio(ctx context.Context, meetingID, userID, filename string, r io.Reader) (*client.UploadResult, error)
	GetSummary(ctx context.Context, meetingID string) (*client.Summary, error)
	GenerateSummary(ctx context.Context, meetingID string) (*client.Summary, error)
}

// Deps holds the dependencies for commands, injectable for testing.
type Deps struct {
	Config     *config.CLIConfig
	LoadConfig func() (*config.CLIConfig, error)
	NewAPI     func(cfg *config.CLIConfig) (MeetingAPI, string, error)
	Metrics    *observability.SessionMetrics
}

var (
	sessionMetricsOnce sync.Once
	sessionMetrics     *observability.SessionMetrics
)

// defaultSessionMetrics returns the process-wide session metrics. The
// default registerer rejects duplicate registration, so they are created
// once no matter how many Deps are built.
func defaultSessionMetrics() *observability.SessionMetrics {
	sessionMetricsOnce.Do(func() {
		sessionMetrics = observability.DefaultSessionMetrics()
	})
	return sessionMetrics
}

// DefaultDeps returns the default dependencies for production use.
func DefaultDeps() *Deps {
	return &Deps{
		LoadConfig: config.LoadConfig,
		NewAPI:     newAPIClient,
		Metrics:    defaultSessionMetrics(),
	}
}

// loadConfig returns the injected config, loading it on first use.
func (d *Deps) loadConfig() (*config.CLIConfig, error) {
	if d.Config != nil {
		return d.Config, nil
	}
	cfg, err := d.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	d.Config = cfg
	return cfg, nil
}

// api builds the API client and resolves the acting user id.
func (d *Deps) api() (MeetingAPI, string, error) {
	cfg, err := d.loadConfig()
	if err != nil {
		return nil, "", err
	}
	return d.NewAPI(cfg)
}

// newAPIClient builds a production client from config and the stored
// credentials. The returned string is the acting user id.
func newAPIClient(cfg *config.CLIConfig) (MeetingAPI, string, error) {
	store, err := credentials.NewStore()
	if err != nil {
		return nil, "", fmt.Errorf("initializing credential store: %w", err)
	}

	creds, err := store.GetActiveCredential()
	if err != nil {
		return nil, "", fmt.Errorf("not logged in, run 'minute auth login': %w", err)
	}

	serverURL := cfg.ServerURL
	if creds.ServerURL != "" {
		serverURL = creds.ServerURL
	}

	c, err := client.New(serverURL, &client.Options{
		Timeout:            cfg.Timeout,
		Token:              creds.Token,
		UserID:             creds.UserID,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	if err != nil {
		return nil, "", err
	}
	return c, creds.UserID, nil
}
