// Package validation judges rewritten resume content against the analyzed
// job requirements and produces the signal that drives the retry loop.
package validation

import (
	"strings"

	"github.com/jonathan/resume-agent/internal/types"
)

// CoverageReport is the deterministic part of validation: which target
// keywords appear in the rewritten content.
type CoverageReport struct {
	// Score is the covered fraction, always in [0.0, 1.0]. An empty
	// keyword set scores 1.0 because there is nothing left to cover.
	Score   float64
	Covered []string
	Missing []string
}

// MeasureCoverage computes keyword coverage of the rewritten bullets against
// the requirements' working keyword set. Matching is case-insensitive on
// whole substrings.
func MeasureCoverage(bullets *types.RewrittenBullets, requirements *types.AnalyzedRequirements) CoverageReport {
	keywords := requirements.AllKeywords()
	if len(keywords) == 0 {
		return CoverageReport{Score: 1.0, Covered: []string{}, Missing: []string{}}
	}

	haystack := strings.ToLower(bullets.AllText())
	report := CoverageReport{
		Covered: make([]string, 0, len(keywords)),
		Missing: make([]string, 0, len(keywords)),
	}
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(strings.TrimSpace(kw))) {
			report.Covered = append(report.Covered, kw)
		} else {
			report.Missing = append(report.Missing, kw)
		}
	}
	report.Score = float64(len(report.Covered)) / float64(len(keywords))
	return report
}
