package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfigDir points MINUTE_CONFIG_DIR at a temp dir for the test.
func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MINUTE_CONFIG_DIR", dir)
	return dir
}

// clearEnv removes the overlay variables so file/default values are visible.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MINUTE_SERVER_URL", "MINUTE_TIMEOUT", "MINUTE_POLL_INTERVAL",
		"MINUTE_OUTPUT_FORMAT", "MINUTE_DEBUG", "MINUTE_INSECURE_SKIP_VERIFY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, OutputFormatText, cfg.OutputFormat)
	assert.False(t, cfg.Debug)
}

func TestLoadConfig_Defaults(t *testing.T) {
	withConfigDir(t)
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := withConfigDir(t)
	clearEnv(t)

	content := []byte(`server_url: https://api.minute.example
timeout: 45s
poll_interval: 5s
output_format: json
debug: true
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), content, 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.minute.example", cfg.ServerURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, OutputFormatJSON, cfg.OutputFormat)
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := withConfigDir(t)
	clearEnv(t)

	content := []byte("server_url: https://file.example\npoll_interval: 5s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), content, 0600))

	t.Setenv("MINUTE_SERVER_URL", "https://env.example")
	t.Setenv("MINUTE_POLL_INTERVAL", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.ServerURL)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := withConfigDir(t)
	clearEnv(t)

	content := []byte("timeout: not-a-duration\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), content, 0600))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CLIConfig)
		wantErr bool
	}{
		{"valid defaults", func(c *CLIConfig) {}, false},
		{"empty server url", func(c *CLIConfig) { c.ServerURL = "" }, true},
		{"server url without scheme", func(c *CLIConfig) { c.ServerURL = "localhost:8000" }, true},
		{"zero timeout", func(c *CLIConfig) { c.Timeout = 0 }, true},
		{"negative poll interval", func(c *CLIConfig) { c.PollInterval = -time.Second }, true},
		{"bad output format", func(c *CLIConfig) { c.OutputFormat = "xml" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	withConfigDir(t)
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.ServerURL = "https://api.minute.example"
	cfg.PollInterval = 3 * time.Second
	cfg.OutputFormat = OutputFormatYAML

	require.NoError(t, SaveConfig(cfg))

	loaded, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, cfg.ServerURL, loaded.ServerURL)
	assert.Equal(t, cfg.PollInterval, loaded.PollInterval)
	assert.Equal(t, cfg.OutputFormat, loaded.OutputFormat)
}

func TestOutputFormat_IsValid(t *testing.T) {
	assert.True(t, OutputFormatText.IsValid())
	assert.True(t, OutputFormatJSON.IsValid())
	assert.True(t, OutputFormatYAML.IsValid())
	assert.False(t, OutputFormat("csv").IsValid())
}
