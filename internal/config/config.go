// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/daniel/timetable-agent/internal/portal"
)

// Config is the CLI configuration, loadable from a JSON file. All fields
// are optional; missing values use defaults or come from CLI flags. It
// replaces the legacy scripts' working-directory-relative module globals
// with one explicit struct handed to each stage.
type Config struct {
	// RootDir is where every artifact lives: raw captures, per-term
	// timetables, the summary and run manifests.
	RootDir string `json:"root_dir,omitempty"`

	// ChartsDir receives rendered charts; empty means <root_dir>/charts.
	ChartsDir string `json:"charts_dir,omitempty"`

	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`

	// Token is the portal bearer token, copied manually from a browser
	// session. Usually supplied via flag or the PORTAL_TOKEN env var
	// rather than committed to a config file.
	Token string `json:"token,omitempty"`

	BatchSize      int `json:"batch_size,omitempty" validate:"gte=0,lte=100"`
	BatchDelayMS   int `json:"batch_delay_ms,omitempty" validate:"gte=0"`
	TimeoutSeconds int `json:"timeout_seconds,omitempty" validate:"gte=0,lte=600"`

	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		RootDir:        "data",
		BaseURL:        portal.DefaultBaseURL,
		BatchSize:      10,
		TimeoutSeconds: 30,
	}
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
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

// Validate checks field values. Required fields are not checked here;
// they are enforced after merging with CLI flags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled
// from defaults. CLI flags always win for booleans, so they are not
// merged here.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.RootDir == "" {
		result.RootDir = defaults.RootDir
	}
	if result.ChartsDir == "" {
		result.ChartsDir = defaults.ChartsDir
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Token == "" {
		result.Token = defaults.Token
	}
	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}
	if result.BatchDelayMS == 0 {
		result.BatchDelayMS = defaults.BatchDelayMS
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	return result
}
