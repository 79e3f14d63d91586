package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/minutehq/minute-cli/client"
	"github.com/minutehq/minute-cli/pkg/logging"
	"github.com/minutehq/minute-cli/summary"
)

// Summary command flags.
var (
	summaryRegenerate bool
	summaryOutput     string
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "summary <meeting-id>",
		Short: "Show the summary of an ended meeting",
		Long: `Show the AI-generated summary of an ended meeting.

If no summary has been generated yet, one is generated on the spot. A
summary read that fails for transport reasons is reported as an error and
does not trigger generation.

Examples:
  minute summary 1f0c9a2e-...
  minute summary 1f0c9a2e-... --regenerate
  minute summary 1f0c9a2e-... --output json`,
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

			logger := logging.NewNopLogger()
			if deps.Config != nil && deps.Config.Debug {
				logger = logging.NewLogger(&logging.Config{
					Level:     logging.LevelDebug,
					Component: "summary",
				})
			}
			acquirer := summary.NewAcquirer(api, &summary.Options{Logger: logger, Metrics: deps.Metrics})

			out := cmd.OutOrStdout()

			if summaryRegenerate {
				fmt.Fprintln(out, "Regenerating summary...")
				s, err := acquirer.Regenerate(cmd.Context(), meetingID)
				if err != nil {
					return fmt.Errorf("regenerating summary: %w", err)
				}
				// Generation may have transcribed more audio, so list
				// transcripts fresh rather than showing a stale count.
				transcripts, terr := api.ListTranscripts(cmd.Context(), meetingID)
				if terr != nil {
					transcripts = nil
				}
				return printSummary(out, deps, s, transcripts)
			}

			views := acquirer.Acquire(cmd.Context(), meetingID)
			switch resolveFormat(deps.Config, summaryOutput) {
			case "json", "yaml":
				// Structured output: only the terminal view matters.
				var last summary.View
				for v := range views {
					last = v
				}
				if last.State == summary.StateEmpty {
					if last.Err != nil {
						return last.Err
					}
					return fmt.Errorf("no summary available")
				}
				return printSummary(out, deps, last.Summary, last.Transcripts)
			}
			return renderSummaryViews(out, views)
		},
	}

	cmd.Flags().BoolVar(&summaryRegenerate, "regenerate", false, "Generate a fresh summary even if one exists")
	cmd.Flags().StringVarP(&summaryOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

// renderSummaryViews consumes the view sequence and prints progress and the
// final summary in text form.
func renderSummaryViews(out io.Writer, views <-chan summary.View) error {
	var last summary.View
	for v := range views {
		last = v
		switch v.State {
		case summary.StateLoading:
			fmt.Fprintln(out, "Loading summary...")
		case summary.StateGenerating:
			fmt.Fprintln(out, "No summary yet, generating one...")
		}
	}

	switch last.State {
	case summary.StateReady:
		return writeSummaryText(out, last)
	case summary.StateEmpty:
		if last.Err != nil {
			return fmt.Errorf("summary unavailable: %w", last.Err)
		}
		return fmt.Errorf("no summary available")
	default:
		return fmt.Errorf("summary acquisition ended in state %q", last.State)
	}
}

func writeSummaryText(out io.Writer, v summary.View) error {
	s := v.Summary
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary")
	fmt.Fprintln(out, "-------")
	fmt.Fprintln(out, s.SummaryText)

	if len(s.ActionItems) > 0 {
		fmt.Fprintln(out, "\nAction items:")
		for _, item := range s.ActionItems {
			fmt.Fprintf(out, "  - %s\n", item)
		}
	}
	if len(s.Keywords) > 0 {
		fmt.Fprint(out, "\nKeywords: ")
		for i, k := range s.Keywords {
			if i > 0 {
				fmt.Fprint(out, ", ")
			}
			fmt.Fprint(out, k)
		}
		fmt.Fprintln(out)
	}
	if s.GeneratedAt != "" {
		fmt.Fprintf(out, "\nGenerated at: %s\n", s.GeneratedAt)
	}
	if len(v.Transcripts) > 0 {
		fmt.Fprintf(out, "Transcript entries: %d\n", len(v.Transcripts))
	}
	return nil
}

// printSummary prints a summary in the configured format.
func printSummary(out io.Writer, deps *Deps, s *client.Summary, transcripts []client.TranscriptEntry) error {
	switch resolveFormat(deps.Config, summaryOutput) {
	case "json":
		return outputJSON(out, s)
	case "yaml":
		return outputYAML(out, s)
	}
	return writeSummaryText(out, summary.View{State: summary.StateReady, Summary: s, Transcripts: transcripts})
}
