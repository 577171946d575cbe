package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON untouched",
			input:    `{"allowed": true}`,
			expected: `{"allowed": true}`,
		},
		{
			name:     "json code fence",
			input:    "```json\n{\"allowed\": true}\n```",
			expected: `{"allowed": true}`,
		},
		{
			name:     "bare code fence",
			input:    "```\n{\"allowed\": true}\n```",
			expected: `{"allowed": true}`,
		},
		{
			name:     "fence with language identifier",
			input:    "```javascript\n{\"allowed\": true}\n```",
			expected: `{"allowed": true}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"score\": 0.8}\n  ",
			expected: `{"score": 0.8}`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestConfigGetModelFallback(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "gemini-2.5-flash-lite",
		},
	}

	// Advanced is not configured; falls back through standard to lite.
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierAdvanced))

	cfg = cfg.WithModel(TierAdvanced, "gemini-2.5-pro")
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))
}
