package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/prompts"
	"github.com/jonathan/resume-agent/internal/schemas"
	"github.com/jonathan/resume-agent/internal/types"
)

// DefaultCoverageThreshold is the minimum keyword coverage score a rewritten
// resume must reach to pass validation.
const DefaultCoverageThreshold = 0.7

// Validator runs the validating_resume stage. The coverage score is computed
// locally and is authoritative; the model judge contributes issues and
// rewrite feedback on top of it.
type Validator struct {
	client    llm.Client
	threshold float64
}

// NewValidator builds a validator. A non-positive threshold selects the
// default.
func NewValidator(client llm.Client, threshold float64) *Validator {
	if threshold <= 0 {
		threshold = DefaultCoverageThreshold
	}
	return &Validator{client: client, threshold: threshold}
}

// Threshold returns the coverage bar in use.
func (v *Validator) Threshold() float64 {
	return v.threshold
}

// Validate scores the rewritten content. A failed judge call degrades to the
// deterministic coverage check alone; validation never errors out of the
// workflow for model trouble.
func (v *Validator) Validate(ctx context.Context, bank *types.PointerBank, bullets *types.RewrittenBullets, requirements *types.AnalyzedRequirements) *types.ValidationResult {
	coverage := MeasureCoverage(bullets, requirements)

	result := &types.ValidationResult{
		KeywordCoverageScore: coverage.Score,
		Issues:               []string{},
	}

	judge, err := v.judge(ctx, bank, bullets, requirements)
	if err != nil {
		log.Printf("Validation judge call failed, falling back to coverage check: %v", err)
	} else {
		result.Issues = judge.Issues
		result.FeedbackForRewrite = judge.FeedbackForRewrite
	}

	result.Passed = result.KeywordCoverageScore >= v.threshold && len(result.Issues) == 0
	if !result.Passed && result.FeedbackForRewrite == "" {
		result.FeedbackForRewrite = coverageFeedback(coverage)
	}
	result.Clamp()
	return result
}

func (v *Validator) judge(ctx context.Context, bank *types.PointerBank, bullets *types.RewrittenBullets, requirements *types.AnalyzedRequirements) (*types.ValidationResult, error) {
	template, err := prompts.Get("validation.json", "validate-resume")
	if err != nil {
		return nil, err
	}

	var source strings.Builder
	for _, s := range bank.Sections {
		for _, b := range s.Bullets {
			source.WriteString(b)
			source.WriteByte('\n')
		}
	}

	prompt := prompts.Format(template, map[string]string{
		"Keywords":            strings.Join(requirements.AllKeywords(), ", "),
		"RequiredSkills":      strings.Join(requirements.RequiredSkills, ", "),
		"KeyResponsibilities": strings.Join(requirements.KeyResponsibilities, ", "),
		"MustHaveExperience":  strings.Join(requirements.MustHaveExperience, ", "),
		"SourceBullets":       source.String(),
		"ResumeContent":       bullets.AllText(),
	})

	raw, err := v.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &JudgeError{Message: "model call failed", Cause: err}
	}

	if err := schemas.Validate(schemas.SchemaValidation, raw); err != nil {
		return nil, &JudgeError{Message: "malformed validation response", Cause: err}
	}

	var result types.ValidationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, &JudgeError{Message: "failed to parse validation response", Cause: err}
	}
	result.Clamp()
	return &result, nil
}

func coverageFeedback(coverage CoverageReport) string {
	if len(coverage.Missing) == 0 {
		return "address the reported issues"
	}
	missing := coverage.Missing
	if len(missing) > 8 {
		missing = missing[:8]
	}
	return fmt.Sprintf("work these missing keywords in where truthful: %s", strings.Join(missing, ", "))
}
