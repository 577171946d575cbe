package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/types"
)

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubClient) GetModel(tier llm.ModelTier) string { return "stub" }

func (s *stubClient) Close() error { return nil }

func requirementsWith(keywords ...string) *types.AnalyzedRequirements {
	r := &types.AnalyzedRequirements{KeywordsForATS: keywords}
	r.EnsureDefaults()
	return r
}

func bulletsWith(text ...string) *types.RewrittenBullets {
	return &types.RewrittenBullets{Sections: []types.RoleSection{
		{Role: "Engineer", Bullets: text},
	}}
}

func TestMeasureCoverage(t *testing.T) {
	tests := []struct {
		name        string
		keywords    []string
		bullets     []string
		wantScore   float64
		wantMissing []string
	}{
		{
			name:      "full coverage",
			keywords:  []string{"Go", "Kubernetes"},
			bullets:   []string{"Built Go services on Kubernetes"},
			wantScore: 1.0,
		},
		{
			name:        "half coverage",
			keywords:    []string{"Go", "Terraform"},
			bullets:     []string{"Built Go services"},
			wantScore:   0.5,
			wantMissing: []string{"Terraform"},
		},
		{
			name:        "case-insensitive match",
			keywords:    []string{"postgresql"},
			bullets:     []string{"Tuned PostgreSQL query plans"},
			wantScore:   1.0,
			wantMissing: nil,
		},
		{
			name:      "no keywords scores full",
			keywords:  nil,
			bullets:   []string{"anything"},
			wantScore: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := MeasureCoverage(bulletsWith(tt.bullets...), requirementsWith(tt.keywords...))
			assert.InDelta(t, tt.wantScore, report.Score, 1e-9)
			if tt.wantMissing != nil {
				assert.Equal(t, tt.wantMissing, report.Missing)
			}
		})
	}
}

func TestValidatePassesWithCleanJudge(t *testing.T) {
	client := &stubClient{response: `{"passed": true, "keyword_coverage_score": 1.0, "issues": []}`}
	v := NewValidator(client, 0.7)

	bank := &types.PointerBank{Sections: []types.RoleSection{{Role: "Engineer", Bullets: []string{"Built Go services on Kubernetes"}}}}
	result := v.Validate(context.Background(), bank,
		bulletsWith("Built Go services on Kubernetes"),
		requirementsWith("Go", "Kubernetes"))

	assert.True(t, result.Passed)
	assert.InDelta(t, 1.0, result.KeywordCoverageScore, 1e-9)
	assert.Empty(t, result.Issues)
}

func TestValidateFailsBelowThreshold(t *testing.T) {
	client := &stubClient{response: `{"passed": true, "keyword_coverage_score": 1.0, "issues": []}`}
	v := NewValidator(client, 0.7)

	bank := &types.PointerBank{}
	result := v.Validate(context.Background(), bank,
		bulletsWith("Built services"),
		requirementsWith("Go", "Terraform", "Kafka"))

	assert.False(t, result.Passed, "local coverage is authoritative over the judge's score")
	assert.Less(t, result.KeywordCoverageScore, 0.7)
	assert.Contains(t, result.FeedbackForRewrite, "Terraform")
}

func TestValidateFailsOnJudgeIssues(t *testing.T) {
	client := &stubClient{response: `{"passed": false, "keyword_coverage_score": 1.0, "issues": ["claim not grounded in source"], "feedback_for_rewrite": "remove the ungrounded claim"}`}
	v := NewValidator(client, 0.7)

	bank := &types.PointerBank{}
	result := v.Validate(context.Background(), bank,
		bulletsWith("Built Go services"),
		requirementsWith("Go"))

	assert.False(t, result.Passed, "issues fail validation even at full coverage")
	assert.Equal(t, "remove the ungrounded claim", result.FeedbackForRewrite)
}

func TestValidateJudgeFailureDegradesToCoverage(t *testing.T) {
	client := &stubClient{err: errors.New("deadline exceeded")}
	v := NewValidator(client, 0.7)

	bank := &types.PointerBank{}
	result := v.Validate(context.Background(), bank,
		bulletsWith("Built Go services on Kubernetes"),
		requirementsWith("Go", "Kubernetes"))

	assert.True(t, result.Passed, "judge failure must not fail a high-coverage resume")
	assert.Empty(t, result.Issues)
}

func TestValidateMalformedJudgeResponse(t *testing.T) {
	client := &stubClient{response: `{"passed": "yes"}`}
	v := NewValidator(client, 0.7)

	bank := &types.PointerBank{}
	result := v.Validate(context.Background(), bank,
		bulletsWith("Built Go services"),
		requirementsWith("Go"))

	assert.True(t, result.Passed)
}

func TestNewValidatorDefaultThreshold(t *testing.T) {
	v := NewValidator(&stubClient{}, 0)
	require.InDelta(t, DefaultCoverageThreshold, v.Threshold(), 1e-9)
}
