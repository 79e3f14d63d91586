package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/minutehq/minute-cli/credentials"
)

// Auth command flags.
var (
	authToken          string
	authUserID         string
	authServer         string
	authNonInteractive bool
)

// NewAuthCommand creates the auth command group.
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long: `Manage authentication credentials for the Minute API.

Credentials are stored at ~/.minute/credentials.yaml with the token
encrypted at rest. The encryption key lives in the system keyring, or in
MINUTE_ENCRYPTION_KEY when no keyring is available.

Environment variables (MINUTE_TOKEN, MINUTE_USER_ID) take precedence over
stored credentials.`,
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the Minute API",
		Long: `Login to the Minute API and store credentials.

Examples:
  # Interactive login (prompts for token and user id)
  minute auth login

  # Non-interactive
  minute auth login --token eyJhbGciOi... --user-id 7f3b...

  # From environment
  MINUTE_TOKEN=... minute auth login --user-id 7f3b...`,
		RunE: runLogin,
	}
	loginCmd.Flags().StringVar(&authToken, "token", "", "Bearer token")
	loginCmd.Flags().StringVar(&authUserID, "user-id", "", "User ID to act as")
	loginCmd.Flags().StringVar(&authServer, "server", "", "Server URL to associate with these credentials")
	loginCmd.Flags().BoolVar(&authNonInteractive, "non-interactive", false, "Fail instead of prompting for input")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout and clear stored credentials",
		Long: `Remove stored credentials from the local credential store.

Environment variables (MINUTE_TOKEN, MINUTE_USER_ID) are not affected.`,
		RunE: runLogout,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show current authentication status",
		Long: `Display the active credential, its source, and expiry.

Shows masked token values only; the full token is never printed.`,
		RunE: runAuthStatus,
	}

	cmd.AddCommand(loginCmd)
	cmd.AddCommand(logoutCmd)
	cmd.AddCommand(statusCmd)
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("initializing credential store: %w", err)
	}

	token := authToken
	if token == "" {
		token = os.Getenv("MINUTE_TOKEN")
	}
	userID := authUserID
	if userID == "" {
		userID = os.Getenv("MINUTE_USER_ID")
	}

	if token == "" {
		if authNonInteractive {
			return fmt.Errorf("no token provided (use --token or MINUTE_TOKEN)")
		}
		fmt.Fprint(cmd.OutOrStdout(), "Token: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return fmt.Errorf("empty token")
	}

	if userID == "" {
		if authNonInteractive {
			return fmt.Errorf("no user id provided (use --user-id or MINUTE_USER_ID)")
		}
		fmt.Fprint(cmd.OutOrStdout(), "User ID: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading user id: %w", err)
		}
		userID = strings.TrimSpace(line)
	}
	if userID == "" {
		return fmt.Errorf("empty user id")
	}

	creds := &credentials.Credentials{
		Token:     token,
		UserID:    userID,
		ServerURL: authServer,
	}
	if err := store.Save(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Logged in.")
	fmt.Fprintf(out, "  User:  %s\n", userID)
	fmt.Fprintf(out, "  Token: %s\n", credentials.MaskToken(token))
	fmt.Fprintf(out, "  Key:   %s\n", store.KeyDescription())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("initializing credential store: %w", err)
	}
	if !store.Exists() {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored credentials.")
		return nil
	}
	if err := store.Delete(); err != nil {
		return fmt.Errorf("removing credentials: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if envToken := os.Getenv("MINUTE_TOKEN"); envToken != "" {
		fmt.Fprintln(out, "Authenticated via environment (MINUTE_TOKEN)")
		fmt.Fprintf(out, "  Token: %s\n", credentials.MaskToken(envToken))
		if envUser := os.Getenv("MINUTE_USER_ID"); envUser != "" {
			fmt.Fprintf(out, "  User:  %s\n", envUser)
		}
		return nil
	}

	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("initializing credential store: %w", err)
	}

	creds, err := store.Load()
	if err != nil {
		if errors.Is(err, credentials.ErrNoCredentials) {
			fmt.Fprintln(out, "Not logged in. Run 'minute auth login'.")
			return nil
		}
		return fmt.Errorf("loading credentials: %w", err)
	}

	fmt.Fprintln(out, "Authenticated via stored credentials")
	fmt.Fprintf(out, "  User:   %s\n", creds.UserID)
	fmt.Fprintf(out, "  Token:  %s\n", credentials.MaskToken(creds.Token))
	if creds.ServerURL != "" {
		fmt.Fprintf(out, "  Server: %s\n", creds.ServerURL)
	}
	if !creds.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "  Expiry: %s\n", credentials.FormatExpiry(creds.ExpiresAt))
	}
	fmt.Fprintf(out, "  Key:    %s\n", store.KeyDescription())
	return nil
}
