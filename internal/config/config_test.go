package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"database_url": "postgres://localhost/resume_agent",
		"pointer_bank": "pointers.md",
		"max_retries": 3,
		"coverage_threshold": 0.8,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/resume_agent", cfg.DatabaseURL)
	assert.Equal(t, "pointers.md", cfg.PointerBank)
	require.NotNil(t, cfg.MaxRetries)
	assert.Equal(t, 3, *cfg.MaxRetries)
	assert.Equal(t, 0.8, cfg.CoverageThreshold)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ExplicitZeroRetries(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{"max_retries": 0}`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg.MaxRetries)
	assert.Equal(t, 0, *cfg.MaxRetries)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MutuallyExclusive(t *testing.T) {
	bank := filepath.Join(t.TempDir(), "pointers.md")
	require.NoError(t, os.WriteFile(bank, []byte("## Skills\n- Go\n"), 0644))

	cfg := &Config{
		PointerBank:    bank,
		PointerBankURL: "https://example.com/pointers.md",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_BadThreshold(t *testing.T) {
	cfg := &Config{CoverageThreshold: 1.5}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "coverage_threshold")
}

func TestValidate_NegativeRetries(t *testing.T) {
	n := -1
	cfg := &Config{MaxRetries: &n}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_retries")
}

func TestValidate_MissingPointerBank(t *testing.T) {
	cfg := &Config{PointerBank: "/nonexistent/pointers.md"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pointer bank file not found")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Port:              8080,
		CoverageThreshold: 0.7,
	}

	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	two := 2
	defaults := Config{
		Port:              8080,
		Template:          "template.txt",
		OutputDir:         "out",
		MaxRetries:        &two,
		CoverageThreshold: 0.7,
	}

	partial := Config{
		Port:        9090,
		DatabaseURL: "postgres://localhost/custom",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, "postgres://localhost/custom", merged.DatabaseURL)

	// Default values should fill in empty fields
	assert.Equal(t, "template.txt", merged.Template)
	assert.Equal(t, "out", merged.OutputDir)
	require.NotNil(t, merged.MaxRetries)
	assert.Equal(t, 2, *merged.MaxRetries)
	assert.Equal(t, 0.7, merged.CoverageThreshold)
}

func TestMergeWithDefaults_ZeroRetriesPreserved(t *testing.T) {
	zero, two := 0, 2
	partial := Config{MaxRetries: &zero}

	merged := partial.MergeWithDefaults(Config{MaxRetries: &two})
	require.NotNil(t, merged.MaxRetries)
	assert.Equal(t, 0, *merged.MaxRetries)
}

func TestMergeWithDefaults_PointerSourceNotMixed(t *testing.T) {
	partial := Config{PointerBankURL: "https://example.com/pointers.md"}

	merged := partial.MergeWithDefaults(Config{PointerBank: "pointers.md"})

	// A configured URL source must not pick up the default file path too.
	assert.Empty(t, merged.PointerBank)
	assert.Equal(t, "https://example.com/pointers.md", merged.PointerBankURL)
}
