package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minutehq/minute-cli/pkg/logging"
	"github.com/minutehq/minute-cli/session"
)

// Audio command flags.
var audioMeetingID string

// NewAudioCommand creates the audio command group.
func NewAudioCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Upload meeting audio",
		Long: `Upload audio recordings for a meeting.

The server transcribes uploaded audio and the new transcript entries show
up in 'minute attend' and 'minute meeting transcripts'.

Examples:
  minute audio upload recording.webm --meeting 1f0c9a2e-...`,
	}

	cmd.AddCommand(newAudioUploadCommand(deps))
	return cmd
}

func newAudioUploadCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an audio file to a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if audioMeetingID == "" {
				return fmt.Errorf("--meeting is required")
			}
			if err := validateMeetingID(audioMeetingID); err != nil {
				return err
			}

			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening audio file: %w", err)
			}
			defer f.Close()

			api, userID, err := deps.api()
			if err != nil {
				return err
			}

			logger := logging.NewNopLogger()
			if deps.Config != nil && deps.Config.Debug {
				logger = logging.NewLogger(&logging.Config{
					Level:     logging.LevelDebug,
					Component: "audio",
				})
			}

			store := session.NewStore()
			uploader := session.NewUploader(api, session.NewClientFetcher(api), store,
				&session.UploaderOptions{Logger: logger, Metrics: deps.Metrics})

			result, err := uploader.Upload(cmd.Context(), audioMeetingID, userID, path, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %s (%s)\n", result.FilePath, formatBytes(result.FileSize))
			if result.DurationSeconds > 0 {
				fmt.Fprintf(out, "  Duration: %s\n", formatTimestamp(result.DurationSeconds))
			}
			if snap, ok := store.Get(); ok {
				fmt.Fprintf(out, "  Meeting now has %d audio file(s)\n", snap.AudioFileCount())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&audioMeetingID, "meeting", "", "Meeting ID (required)")
	return cmd
}
