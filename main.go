// Package main provides the minute CLI entry point.
// minute is the command-line client for the Minute meeting service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minutehq/minute-cli/client"
	"github.com/minutehq/minute-cli/cmd"
	"github.com/minutehq/minute-cli/config"
	"github.com/minutehq/minute-cli/pkg/buildinfo"
)

// Global flags and state.
var (
	serverURL    string
	timeout      time.Duration
	outputFormat string
	debug        bool
	insecure     bool

	// cfg holds the loaded configuration.
	cfg *config.CLIConfig

	deps = cmd.DefaultDeps()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "minute",
	Short: "Minute CLI - meeting transcription client",
	Long: `minute is the command-line client for the Minute meeting service.

Minute records meetings, transcribes uploaded audio, and generates AI
summaries. This CLI creates and joins meetings, follows a live meeting's
transcript, uploads audio, and retrieves summaries.

COMMON WORKFLOWS:
  Host a meeting:   minute meeting create --title "..."  →  minute attend <id>
  Join a meeting:   minute meeting join <id>  →  minute attend <id>
  Upload audio:     minute audio upload rec.webm --meeting <id>
  After the fact:   minute meeting list  →  minute summary <id>

DISCOVERY:
  minute <command> --help     Subcommands, flags, and examples
  minute status               Server connectivity check`,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		// Skip initialization for commands that don't need it.
		if c.Name() == "version" || c.Name() == "help" || c.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		// Override with command-line flags.
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		if timeout != 0 {
			cfg.Timeout = timeout
		}
		if outputFormat != "" {
			cfg.OutputFormat = config.OutputFormat(outputFormat)
		}
		if debug {
			cfg.Debug = true
		}
		if insecure {
			cfg.InsecureSkipVerify = true
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		deps.Config = cfg
		return nil
	},
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(c *cobra.Command, args []string) error {
		info := buildinfo.Get()
		out := c.OutOrStdout()
		fmt.Fprintf(out, "minute version %s\n", info.Version)
		fmt.Fprintf(out, "  commit: %s\n", info.Commit)
		fmt.Fprintf(out, "  built:  %s\n", info.BuildTime)
		fmt.Fprintf(out, "  go:     %s\n", info.GoVersion)
		return nil
	},
}

// statusCmd checks connectivity to the Minute server.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connection status to the Minute server",
	Long: `Check connectivity to the Minute server's health endpoint.

This does not require authentication.

Examples:
  minute status
  minute status --server https://minute.example.com`,
	RunE: func(c *cobra.Command, args []string) error {
		cl, err := client.New(cfg.ServerURL, &client.Options{Timeout: cfg.Timeout, InsecureSkipVerify: cfg.InsecureSkipVerify})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout)
		defer cancel()

		status, err := cl.Health(ctx)
		out := c.OutOrStdout()
		if err != nil {
			fmt.Fprintln(out, "Connection status: UNREACHABLE")
			fmt.Fprintf(out, "  Server: %s\n", cfg.ServerURL)
			fmt.Fprintf(out, "  Error:  %s\n", err)
			return nil
		}
		fmt.Fprintln(out, "Connection status: OK")
		fmt.Fprintf(out, "  Server: %s\n", cfg.ServerURL)
		fmt.Fprintf(out, "  Status: %s\n", status)
		return nil
	},
}

// configCmd manages CLI configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `View and modify the minute CLI configuration settings.`,
}

// configShowCmd displays current configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(c *cobra.Command, args []string) error {
		configPath, _ := config.ConfigPath()
		out := c.OutOrStdout()
		fmt.Fprintln(out, "Current configuration:")
		fmt.Fprintf(out, "  Config file:   %s\n", configPath)
		fmt.Fprintf(out, "  Server URL:    %s\n", cfg.ServerURL)
		fmt.Fprintf(out, "  Timeout:       %s\n", cfg.Timeout)
		fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval)
		fmt.Fprintf(out, "  Output format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "  Debug:         %t\n", cfg.Debug)
		fmt.Fprintf(out, "  Insecure:      %t\n", cfg.InsecureSkipVerify)
		return nil
	},
}

// configInitCmd initializes configuration.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with default values if one doesn't exist.`,
	RunE: func(c *cobra.Command, args []string) error {
		configPath, err := config.ConfigPath()
		if err != nil {
			return fmt.Errorf("getting config path: %w", err)
		}

		out := c.OutOrStdout()
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(out, "Configuration file already exists: %s\n", configPath)
			fmt.Fprintln(out, "Use 'minute config show' to view current settings.")
			return nil
		}

		defaultCfg := config.DefaultConfig()
		if err := config.SaveConfig(defaultCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Fprintf(out, "Created configuration file: %s\n", configPath)
		fmt.Fprintln(out, "\nDefault settings:")
		fmt.Fprintf(out, "  Server URL:    %s\n", defaultCfg.ServerURL)
		fmt.Fprintf(out, "  Timeout:       %s\n", defaultCfg.Timeout)
		fmt.Fprintf(out, "  Poll interval: %s\n", defaultCfg.PollInterval)
		fmt.Fprintf(out, "  Output format: %s\n", defaultCfg.OutputFormat)
		return nil
	},
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Available keys:
  server_url     - Minute server base URL (scheme://host:port)
  timeout        - Request timeout (e.g., 30s, 1m)
  poll_interval  - Live session refresh interval (e.g., 2s)
  output_format  - Default output format (text, json, yaml)
  debug          - Enable debug mode (true/false)
  insecure       - Disable TLS verification (true/false)

Examples:
  minute config set server_url https://minute.example.com
  minute config set poll_interval 5s
  minute config set output_format json`,
	Args: cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		currentCfg, err := config.LoadConfig()
		if err != nil {
			currentCfg = config.DefaultConfig()
		}

		switch key {
		case "server_url":
			currentCfg.ServerURL = value
		case "timeout":
			duration, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid timeout value: %w", err)
			}
			currentCfg.Timeout = duration
		case "poll_interval":
			duration, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid poll interval value: %w", err)
			}
			currentCfg.PollInterval = duration
		case "output_format":
			format := config.OutputFormat(value)
			if !format.IsValid() {
				return fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", value)
			}
			currentCfg.OutputFormat = format
		case "debug":
			b, err := parseBool(value)
			if err != nil {
				return fmt.Errorf("invalid debug value: %s (must be true or false)", value)
			}
			currentCfg.Debug = b
		case "insecure":
			b, err := parseBool(value)
			if err != nil {
				return fmt.Errorf("invalid insecure value: %s (must be true or false)", value)
			}
			currentCfg.InsecureSkipVerify = b
		default:
			return fmt.Errorf("unknown configuration key: %s", key)
		}

		if err := currentCfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveConfig(currentCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Fprintf(c.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

func parseBool(value string) (bool, error) {
	switch value {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %s", value)
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for minute.

To load completions:

Bash:
  $ source <(minute completion bash)

Zsh:
  $ minute completion zsh > "${fpath[1]}/_minute"

Fish:
  $ minute completion fish | source

PowerShell:
  PS> minute completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(c *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	// Global flags.
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Minute server base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (e.g., 30s, 1m)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "", "output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "disable TLS verification")

	rootCmd.AddGroup(
		&cobra.Group{ID: "meetings", Title: "Meetings:"},
		&cobra.Group{ID: "setup", Title: "Setup:"},
	)

	meetingCmd := cmd.NewMeetingCommand(deps)
	meetingCmd.GroupID = "meetings"
	rootCmd.AddCommand(meetingCmd)

	attendCmd := cmd.NewAttendCommand(deps)
	attendCmd.GroupID = "meetings"
	rootCmd.AddCommand(attendCmd)

	audioCmd := cmd.NewAudioCommand(deps)
	audioCmd.GroupID = "meetings"
	rootCmd.AddCommand(audioCmd)

	summaryCmd := cmd.NewSummaryCommand(deps)
	summaryCmd.GroupID = "meetings"
	rootCmd.AddCommand(summaryCmd)

	authCmd := cmd.NewAuthCommand()
	authCmd.GroupID = "setup"
	rootCmd.AddCommand(authCmd)

	configCmd.GroupID = "setup"
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)

	statusCmd.GroupID = "setup"
	rootCmd.AddCommand(statusCmd)

	completionCmd.GroupID = "setup"
	rootCmd.AddCommand(completionCmd)

	versionCmd.GroupID = "setup"
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// First Ctrl-C cancels the context so live views stop cleanly; a second
	// one kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
