package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minutehq/minute-cli/client"
)

// Meeting command flags.
var (
	meetingTitle           string
	meetingMaxParticipants int
	meetingOutput          string
)

// NewMeetingCommand creates the meeting command group.
func NewMeetingCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "meeting",
		Short: "Create and manage meetings",
		Long: `Create and manage meetings on the Minute server.

A meeting starts in the waiting state, becomes active when participants
join, and is ended explicitly by its host. While a meeting is active,
'minute attend' keeps a live view of its transcript in sync.

Examples:
  # Create a meeting
  minute meeting create --title "Weekly sync"

  # List your meetings
  minute meeting list

  # Show one meeting
  minute meeting show 1f0c9a2e-...

  # Print the transcript so far
  minute meeting transcripts 1f0c9a2e-...

  # Join, leave, end
  minute meeting join 1f0c9a2e-...
  minute meeting leave 1f0c9a2e-...
  minute meeting end 1f0c9a2e-...

Related Commands:
  minute attend       Live session view with transcript sync
  minute summary      Summary for an ended meeting`,
	}

	cmd.PersistentFlags().StringVarP(&meetingOutput, "output", "o", "", "Output format: text, json, yaml")

	cmd.AddCommand(newMeetingCreateCommand(deps))
	cmd.AddCommand(newMeetingListCommand(deps))
	cmd.AddCommand(newMeetingShowCommand(deps))
	cmd.AddCommand(newMeetingTranscriptsCommand(deps))
	cmd.AddCommand(newMeetingJoinCommand(deps))
	cmd.AddCommand(newMeetingLeaveCommand(deps))
	cmd.AddCommand(newMeetingEndCommand(deps))

	return cmd
}

func newMeetingCreateCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new meeting",
		Long: `Create a new meeting with yourself as host.

Examples:
  minute meeting create --title "Weekly sync"
  minute meeting create --title "All hands" --max-participants 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if meetingTitle == "" {
				return fmt.Errorf("--title is required")
			}

			api, userID, err := deps.api()
			if err != nil {
				return err
			}

			meeting, err := api.CreateMeeting(cmd.Context(), &client.CreateMeetingRequest{
				MeetingTitle:    meetingTitle,
				HostID:          userID,
				MaxParticipants: meetingMaxParticipants,
			})
			if err != nil {
				return fmt.Errorf("creating meeting: %w", err)
			}

			out := cmd.OutOrStdout()
			switch resolveFormat(deps.Config, meetingOutput) {
			case "json":
				return outputJSON(out, meeting)
			case "yaml":
				return outputYAML(out, meeting)
			}
			fmt.Fprintf(out, "Created meeting %q\n", meeting.MeetingTitle)
			fmt.Fprintf(out, "  ID:     %s\n", meeting.ID)
			fmt.Fprintf(out, "  Status: %s\n", meeting.Status)
			fmt.Fprintf(out, "\nJoin the live view with: minute attend %s\n", meeting.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&meetingTitle, "title", "", "Meeting title (required)")
	cmd.Flags().IntVar(&meetingMaxParticipants, "max-participants", 0, "Participant limit (0 for server default)")

	return cmd
}

func newMeetingListCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your meetings",
		Long: `List meetings you host or have joined.

Examples:
  minute meeting list
  minute meeting list --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, userID, err := deps.api()
			if err != nil {
				return err
			}

			meetings, err := api.ListUserMeetings(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("listing meetings: %w", err)
			}

			out := cmd.OutOrStdout()
			switch resolveFormat(deps.Config, meetingOutput) {
			case "json":
				return outputJSON(out, meetings)
			case "yaml":
				return outputYAML(out, meetings)
			}

			if len(meetings) == 0 {
				fmt.Fprintln(out, "No meetings yet. Create one with: minute meeting create --title \"...\"")
				return nil
			}

			fmt.Fprintf(out, "%-38s %-8s %-12s %-10s %s\n", "ID", "STATUS", "PARTICIPANTS", "SUMMARY", "TITLE")
			for _, m := range meetings {
				summaryCol := "-"
				if m.HasSummary {
					summaryCol = "yes"
				}
				fmt.Fprintf(out, "%-38s %-8s %-12d %-10s %s\n",
					m.ID, m.Status, m.ParticipantsCount, summaryCol, truncate(m.MeetingTitle, 40))
			}
			return nil
		},
	}
}

func newMeetingShowCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <meeting-id>",
		Short: "Show a meeting's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := args[0]
			if err := validateMeetingID(meetingID); err != nil {
				return err
			}

			api, _, err := deps.api()
			if err != nil {
				return err
			}

			meeting, err := api.GetMeeting(cmd.Context(), meetingID)
			if err != nil {
				return fmt.Errorf("fetching meeting: %w", err)
			}

			out := cmd.OutOrStdout()
			switch resolveFormat(deps.Config, meetingOutput) {
			case "json":
				return outputJSON(out, meeting)
			case "yaml":
				return outputYAML(out, meeting)
			}

			fmt.Fprintf(out, "Meeting: %s\n", meeting.MeetingTitle)
			fmt.Fprintf(out, "  ID:           %s\n", meeting.ID)
			fmt.Fprintf(out, "  Status:       %s\n", meeting.Status)
			fmt.Fprintf(out, "  Host:         %s\n", meeting.HostID)
			fmt.Fprintf(out, "  Participants: %d", meeting.ParticipantsCount)
			if meeting.MaxParticipants > 0 {
				fmt.Fprintf(out, "/%d", meeting.MaxParticipants)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Transcripts:  %d\n", meeting.TranscriptCount)
			fmt.Fprintf(out, "  Created:      %s\n", meeting.CreatedAt)
			if meeting.EndedAt != "" {
				fmt.Fprintf(out, "  Ended:        %s\n", meeting.EndedAt)
			}
			if len(meeting.AudioFiles) > 0 {
				fmt.Fprintln(out, "  Audio files:")
				for _, f := range meeting.AudioFiles {
					fmt.Fprintf(out, "    %s  %s (%s)\n", f.ID, f.FilePath, formatBytes(f.FileSize))
				}
			}
			if meeting.HasSummary {
				fmt.Fprintf(out, "\nSummary available: minute summary %s\n", meeting.ID)
			}
			return nil
		},
	}
}

func newMeetingTranscriptsCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "transcripts <meeting-id>",
		Short: "Print the transcript entries of a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := args[0]
			if err := validateMeetingID(meetingID); err != nil {
				return err
			}

			api, _, err := deps.api()
			if err != nil {
				return err
			}

			entries, err := api.ListTranscripts(cmd.Context(), meetingID)
			if err != nil {
				return fmt.Errorf("fetching transcripts: %w", err)
			}

			out := cmd.OutOrStdout()
			switch resolveFormat(deps.Config, meetingOutput) {
			case "json":
				return outputJSON(out, entries)
			case "yaml":
				return outputYAML(out, entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No transcript entries yet.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "[%s] %s: %s\n", formatTimestamp(e.TimestampSeconds), e.SpeakerName, e.TranscriptText)
			}
			return nil
		},
	}
}

func newMeetingJoinCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "join <meeting-id>",
		Short: "Join a meeting as participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := args[0]
			if err := validateMeetingID(meetingID); err != nil {
				return err
			}

			api, userID, err := deps.api()
			if err != nil {
				return err
			}

			meeting, err := api.JoinMeeting(cmd.Context(), &client.JoinMeetingRequest{
				MeetingID: meetingID,
				UserID:    userID,
			})
			if err != nil {
				return fmt.Errorf("joining meeting: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Joined %q (%d participants)\n", meeting.MeetingTitle, meeting.ParticipantsCount)
			fmt.Fprintf(out, "Start the live view with: minute attend %s\n", meeting.ID)
			return nil
		},
	}
}

func newMeetingLeaveCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <meeting-id>",
		Short: "Leave a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := args[0]
			if err := validateMeetingID(meetingID); err != nil {
				return err
			}

			api, userID, err := deps.api()
			if err != nil {
				return err
			}

			if err := api.LeaveMeeting(cmd.Context(), meetingID, userID); err != nil {
				return fmt.Errorf("leaving meeting: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Left the meeting.")
			return nil
		},
	}
}

func newMeetingEndCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "end <meeting-id>",
		Short: "End a meeting (host only)",
		Long: `End a meeting. Only the host can end a meeting.

The meeting is only reported as ended once the server confirms it. After
ending, fetch the summary with 'minute summary <meeting-id>'.`,
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

			meeting, err := api.EndMeeting(cmd.Context(), meetingID)
			if err != nil {
				return fmt.Errorf("ending meeting: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Meeting %q ended.\n", meeting.MeetingTitle)
			fmt.Fprintf(out, "Get the summary with: minute summary %s\n", meeting.ID)
			return nil
		},
	}
}
