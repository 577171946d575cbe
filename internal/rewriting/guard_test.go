package rewriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain numbers and percent",
			text: "Reduced latency by 40% across 12 services",
			want: []string{"40%", "12"},
		},
		{
			name: "currency and suffix",
			text: "Saved $2.5M annually and handled 10k rps",
			want: []string{"$2.5m", "10k"},
		},
		{
			name: "no numbers",
			text: "Led migration to a new platform",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := numericTokens(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckFabrication(t *testing.T) {
	tests := []struct {
		name           string
		source         string
		rewritten      string
		context        string
		wantFabricated []string
		wantLost       []string
	}{
		{
			name:      "metric preserved",
			source:    "Cut build times by 40%",
			rewritten: "Reduced CI build times by 40% using caching",
		},
		{
			name:           "metric invented",
			source:         "Improved build times",
			rewritten:      "Improved build times by 40%",
			wantFabricated: []string{"40%"},
		},
		{
			name:     "metric dropped",
			source:   "Cut build times by 40%",
			rewritten: "Dramatically reduced build times",
			wantLost: []string{"40%"},
		},
		{
			name:      "number justified by context",
			source:    "Built backend services in Go",
			rewritten: "Built backend services in Go on Kubernetes 1.29",
			context:   "Go Kubernetes 1.29 PostgreSQL",
		},
		{
			name:      "no numbers anywhere",
			source:    "Mentored junior engineers",
			rewritten: "Mentored and coached junior engineers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fabricated, lost := checkFabrication(tt.source, tt.rewritten, tt.context)
			assert.Equal(t, tt.wantFabricated, fabricated)
			assert.Equal(t, tt.wantLost, lost)
		})
	}
}
