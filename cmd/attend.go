package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/minutehq/minute-cli/client"
	"github.com/minutehq/minute-cli/pkg/logging"
	"github.com/minutehq/minute-cli/session"
	"github.com/minutehq/minute-cli/summary"
)

// Attend command flags.
var (
	attendInterval time.Duration
	attendEnd      bool
)

// NewAttendCommand creates the attend command.
func NewAttendCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "attend <meeting-id>",
		Short: "Follow a meeting live",
		Long: `Follow a meeting live: transcript entries are printed as they arrive.

The view refreshes on a fixed interval (default 2s). It runs until you
interrupt it with Ctrl-C or the meeting ends. When the meeting ends, the
summary is fetched automatically, generating one if none exists yet.

With --end, your interrupt ends the meeting first (host only) and then
proceeds to the summary.

Examples:
  minute attend 1f0c9a2e-...
  minute attend 1f0c9a2e-... --interval 5s
  minute attend 1f0c9a2e-... --end`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := args[0]
			if err := validateMeetingID(meetingID); err != nil {
				return err
			}

			api, _, err := deps.api()
			if err != nil {
				return err
			}
			return runAttend(cmd.Context(), cmd, deps, api, meetingID)
		},
	}

	cmd.Flags().DurationVar(&attendInterval, "interval", 0, "Refresh interval (default from config, 2s)")
	cmd.Flags().BoolVar(&attendEnd, "end", false, "End the meeting on interrupt (host only)")

	return cmd
}

func runAttend(ctx context.Context, cmd *cobra.Command, deps *Deps, api MeetingAPI, meetingID string) error {
	out := cmd.OutOrStdout()

	interval := attendInterval
	if interval <= 0 && deps.Config != nil {
		interval = deps.Config.PollInterval
	}
	if interval <= 0 {
		interval = session.DefaultPollInterval
	}

	logger := logging.NewNopLogger()
	if deps.Config != nil && deps.Config.Debug {
		logger = logging.NewLogger(&logging.Config{
			Level:     logging.LevelDebug,
			Component: "attend",
		})
	}

	store := session.NewStore()
	fetcher := session.NewClientFetcher(api)
	poller := session.NewPoller(fetcher, &session.PollerOptions{
		Interval: interval,
		Logger:   logger,
		Metrics:  deps.Metrics,
	})

	handle := poller.Start(ctx, meetingID, store)

	fmt.Fprintf(out, "Following meeting %s (Ctrl-C to stop)\n", meetingID)

	printed := 0
	ended := false
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			snap, ok := store.Get()
			if !ok {
				continue
			}
			printed = printNewTranscripts(out, snap.Transcripts, printed)
			if snap.Meeting != nil && snap.Meeting.Status == client.StatusEnded {
				fmt.Fprintln(out, "\nMeeting has ended.")
				ended = true
				break loop
			}
		}
	}

	handle.Stop()

	if !ended && attendEnd {
		lifecycle := session.NewLifecycle(api, store, &session.LifecycleOptions{Logger: logger})
		endCtx, cancel := context.WithTimeout(context.Background(), endTimeout(deps))
		defer cancel()
		meeting, err := lifecycle.End(endCtx, meetingID)
		if err != nil {
			return fmt.Errorf("ending meeting: %w", err)
		}
		fmt.Fprintf(out, "\nMeeting %q ended.\n", meeting.MeetingTitle)
		ended = true
	}

	if !ended {
		fmt.Fprintln(out, "\nStopped following.")
		return nil
	}

	acquirer := summary.NewAcquirer(api, &summary.Options{Logger: logger, Metrics: deps.Metrics})
	sumCtx, cancel := context.WithTimeout(context.Background(), endTimeout(deps))
	defer cancel()
	return renderSummaryViews(out, acquirer.Acquire(sumCtx, meetingID))
}

// printNewTranscripts prints entries past the already printed prefix and
// returns the new count. Snapshots are append-only, so the prefix is stable.
func printNewTranscripts(out io.Writer, entries []client.TranscriptEntry, printed int) int {
	for ; printed < len(entries); printed++ {
		e := entries[printed]
		fmt.Fprintf(out, "[%s] %s: %s\n", formatTimestamp(e.TimestampSeconds), e.SpeakerName, e.TranscriptText)
	}
	return printed
}

func endTimeout(deps *Deps) time.Duration {
	if deps.Config != nil && deps.Config.Timeout > 0 {
		return deps.Config.Timeout
	}
	return 2 * time.Minute
}
