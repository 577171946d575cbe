package types

// ValidationResult is the outcome of checking a rewritten resume against the
// analyzed requirements. KeywordCoverageScore is always in [0.0, 1.0].
type ValidationResult struct {
	Passed               bool     `json:"passed"`
	KeywordCoverageScore float64  `json:"keyword_coverage_score"`
	Issues               []string `json:"issues"`
	FeedbackForRewrite   string   `json:"feedback_for_rewrite,omitempty"`
}

// Clamp forces the coverage score into [0.0, 1.0] and ensures Issues is
// non-nil. Scores reported on a 0-100 scale are rescaled.
func (v *ValidationResult) Clamp() {
	if v.KeywordCoverageScore > 1.0 && v.KeywordCoverageScore <= 100.0 {
		v.KeywordCoverageScore /= 100.0
	}
	if v.KeywordCoverageScore < 0.0 {
		v.KeywordCoverageScore = 0.0
	}
	if v.KeywordCoverageScore > 1.0 {
		v.KeywordCoverageScore = 1.0
	}
	if v.Issues == nil {
		v.Issues = []string{}
	}
}
