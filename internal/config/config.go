// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variables read by FromEnv.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvToken       = "HIRED_TOKEN"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	ProfilePath string `json:"profile,omitempty"`      // Applicant profile YAML
	TrackerPath string `json:"tracker_path,omitempty"` // SQLite tracker database

	// AI
	APIKey string `json:"api_key,omitempty"` // Gemini API key
	Model  string `json:"model,omitempty"`   // Overrides the lite-tier model
	UseAI  bool   `json:"use_ai,omitempty"`  // Answer fields with the AI solver

	// Browser
	RemoteURL string `json:"remote_url,omitempty" validate:"omitempty,url"` // DevTools websocket of a running Chrome
	Headless  bool   `json:"headless,omitempty"`
	Timeout   string `json:"timeout,omitempty" validate:"omitempty,duration"` // Per browser round trip, e.g. "30s"

	// Server
	Port        int    `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Token       string `json:"token,omitempty"`        // Bearer token the extension must send
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL tracker instead of SQLite

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration rooted at the user's config dir.
func Defaults() Config {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	dir = filepath.Join(dir, "hired-always")
	return Config{
		ProfilePath: filepath.Join(dir, "profile.yaml"),
		TrackerPath: filepath.Join(dir, "tracker.db"),
		Timeout:     "30s",
		Port:        8765,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills secrets that are unset from the environment.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
	if c.Token == "" {
		c.Token = os.Getenv(EnvToken)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
	return v
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(errs))
			for _, e := range errs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed %s", e.Field(), e.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	if c.RemoteURL != "" && !strings.HasPrefix(c.RemoteURL, "ws://") && !strings.HasPrefix(c.RemoteURL, "wss://") &&
		!strings.HasPrefix(c.RemoteURL, "http://") {
		return fmt.Errorf("config error: 'remote_url' must be a ws://, wss:// or http:// DevTools address")
	}
	return nil
}

// BrowserTimeout returns the parsed browser timeout, or zero when unset.
func (c *Config) BrowserTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ProfilePath == "" {
		result.ProfilePath = defaults.ProfilePath
	}
	if result.TrackerPath == "" {
		result.TrackerPath = defaults.TrackerPath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.RemoteURL == "" {
		result.RemoteURL = defaults.RemoteURL
	}
	if result.Timeout == "" {
		result.Timeout = defaults.Timeout
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Token == "" {
		result.Token = defaults.Token
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
