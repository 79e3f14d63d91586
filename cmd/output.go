package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/minutehq/minute-cli/config"
)

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputYAML writes v as YAML.
func outputYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

// resolveFormat picks the output format: the per-command flag wins over the
// configured default.
func resolveFormat(cfg *config.CLIConfig, flag string) config.OutputFormat {
	if flag != "" {
		return config.OutputFormat(flag)
	}
	if cfg != nil && cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	return config.OutputFormatText
}

// validateMeetingID rejects identifiers that cannot be meeting ids before
// any request is made with them.
func validateMeetingID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid meeting id %q: %w", id, err)
	}
	return nil
}

// formatTimestamp renders a transcript offset like 1m23s.
func formatTimestamp(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	return d.Truncate(time.Second).String()
}

// formatBytes renders a file size in human units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "..."
}
