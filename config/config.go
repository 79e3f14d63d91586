// Package config provides CLI configuration management for the minute
// command-line tool. It supports loading configuration from YAML files,
// environment variables, and command-line flags.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultServerURL    = "http://localhost:8000"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 2 * time.Second
	DefaultOutputFormat = OutputFormatText
	DefaultConfigDir    = ".minute"
	DefaultConfigFile   = "config.yaml"
)

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// ServerURL is the base URL of the Minute API (scheme://host:port).
	ServerURL string `yaml:"server_url"`

	// Timeout is the default timeout for API requests. Synchronous summary
	// generation can take a while, so this is per-request, not per-command.
	Timeout time.Duration `yaml:"timeout"`

	// PollInterval is the cadence of the live-session refresh loop.
	PollInterval time.Duration `yaml:"poll_interval"`

	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`

	// InsecureSkipVerify disables TLS certificate verification
	// (for development only).
	InsecureSkipVerify bool `yaml:"insecure_skip_verify,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		ServerURL:    DefaultServerURL,
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		OutputFormat: DefaultOutputFormat,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $MINUTE_CONFIG_DIR if set, otherwise ~/.minute
func ConfigDir() (string, error) {
	if dir := os.Getenv("MINUTE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration from file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.minute/config.yaml or $MINUTE_CONFIG_DIR/config.yaml)
// 3. Environment variables (MINUTE_SERVER_URL, MINUTE_TIMEOUT, ...)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Durations are written as strings in the file, so unmarshal via a
	// temp struct.
	type configFile struct {
		ServerURL          string       `yaml:"server_url"`
		Timeout            string       `yaml:"timeout"`
		PollInterval       string       `yaml:"poll_interval"`
		OutputFormat       OutputFormat `yaml:"output_format"`
		Debug              bool         `yaml:"debug"`
		InsecureSkipVerify bool         `yaml:"insecure_skip_verify"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.ServerURL != "" {
		cfg.ServerURL = fileCfg.ServerURL
	}
	if fileCfg.Timeout != "" {
		timeout, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if fileCfg.PollInterval != "" {
		interval, err := time.ParseDuration(fileCfg.PollInterval)
		if err != nil {
			return fmt.Errorf("parsing poll_interval: %w", err)
		}
		cfg.PollInterval = interval
	}
	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	cfg.Debug = fileCfg.Debug
	cfg.InsecureSkipVerify = fileCfg.InsecureSkipVerify

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("MINUTE_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}

	if v := os.Getenv("MINUTE_TIMEOUT"); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = timeout
		}
	}

	if v := os.Getenv("MINUTE_POLL_INTERVAL"); v != "" {
		if interval, err := time.ParseDuration(v); err == nil {
			cfg.PollInterval = interval
		}
	}

	if v := os.Getenv("MINUTE_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("MINUTE_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if v := os.Getenv("MINUTE_INSECURE_SKIP_VERIFY"); v == "true" || v == "1" {
		cfg.InsecureSkipVerify = true
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server_url must be a valid URL with scheme and host: %q", c.ServerURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}

	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}

	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)

	type configFile struct {
		ServerURL          string       `yaml:"server_url"`
		Timeout            string       `yaml:"timeout"`
		PollInterval       string       `yaml:"poll_interval"`
		OutputFormat       OutputFormat `yaml:"output_format"`
		Debug              bool         `yaml:"debug,omitempty"`
		InsecureSkipVerify bool         `yaml:"insecure_skip_verify,omitempty"`
	}

	fileCfg := configFile{
		ServerURL:          cfg.ServerURL,
		Timeout:            cfg.Timeout.String(),
		PollInterval:       cfg.PollInterval.String(),
		OutputFormat:       cfg.OutputFormat,
		Debug:              cfg.Debug,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	data, err := yaml.Marshal(&fileCfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}
