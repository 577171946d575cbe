// Package config provides configuration loading and validation for the agent.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the agent configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags or environment variables.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL (omit for in-memory statuses)

	// Inputs
	PointerBank    string `json:"pointer_bank,omitempty"`     // Path to pointer bank markdown file
	PointerBankURL string `json:"pointer_bank_url,omitempty"` // URL to fetch pointer bank from
	Template       string `json:"template,omitempty"`         // Path to resume template

	// Outputs
	OutputDir     string `json:"output_dir,omitempty"`      // Directory for rendered documents
	UploadDir     string `json:"upload_dir,omitempty"`      // Directory finished resumes are published to
	UploadBaseURL string `json:"upload_base_url,omitempty"` // Public base URL for uploaded resumes

	// Behavior
	APIKey              string   `json:"api_key,omitempty"`               // Gemini API key
	MaxRetries          *int     `json:"max_retries,omitempty"`           // Rewrite retries after a failed validation (0 disables retries)
	CoverageThreshold   float64  `json:"coverage_threshold,omitempty"`    // Minimum keyword coverage score (0.0-1.0)
	StageTimeoutSeconds int      `json:"stage_timeout_seconds,omitempty"` // Per-stage timeout for workflow stages
	BlockerPhrases      []string `json:"blocker_phrases,omitempty"`       // Extra screening blocker phrases
	UseBrowser          bool     `json:"use_browser,omitempty"`           // Use headless browser for SPA job pages
	Verbose             bool     `json:"verbose,omitempty"`               // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// after merging with flags and environment variables.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.PointerBank != "" && c.PointerBankURL != "" {
		return fmt.Errorf("config error: 'pointer_bank' and 'pointer_bank_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		return fmt.Errorf("config error: 'max_retries' must be non-negative")
	}
	if c.CoverageThreshold < 0 || c.CoverageThreshold > 1 {
		return fmt.Errorf("config error: 'coverage_threshold' must be between 0.0 and 1.0")
	}
	if c.StageTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'stage_timeout_seconds' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	if c.PointerBank != "" {
		if _, err := os.Stat(c.PointerBank); os.IsNotExist(err) {
			return fmt.Errorf("config error: pointer bank file not found: %s", c.PointerBank)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.PointerBank == "" && result.PointerBankURL == "" {
		result.PointerBank = defaults.PointerBank
		result.PointerBankURL = defaults.PointerBankURL
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.UploadDir == "" {
		result.UploadDir = defaults.UploadDir
	}
	if result.UploadBaseURL == "" {
		result.UploadBaseURL = defaults.UploadBaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.StageTimeoutSeconds == 0 {
		result.StageTimeoutSeconds = defaults.StageTimeoutSeconds
	}

	// MaxRetries distinguishes unset (nil) from an explicit zero; an
	// explicit zero disables the retry loop.
	if result.MaxRetries == nil {
		result.MaxRetries = defaults.MaxRetries
	}

	// Float fields
	if result.CoverageThreshold == 0 {
		result.CoverageThreshold = defaults.CoverageThreshold
	}

	if len(result.BlockerPhrases) == 0 {
		result.BlockerPhrases = defaults.BlockerPhrases
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
