// Package analysis extracts structured job metadata and requirements from raw
// job-description text.
package analysis

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/prompts"
	"github.com/jonathan/resume-agent/internal/schemas"
	"github.com/jonathan/resume-agent/internal/types"
)

// maxExtractionAttempts bounds retries of a single extraction call when the
// model returns malformed JSON. This is independent of the workflow's
// validation retry loop.
const maxExtractionAttempts = 3

// Analyzer wraps the two extraction calls of the JD-analysis stage.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer builds an analyzer on the given client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Request carries the stage input. ProvidedTitle and ProvidedCompany are
// caller-supplied hints that override extracted values when set.
type Request struct {
	JobDescription  string
	JobURL          string
	ProvidedTitle   string
	ProvidedCompany string
}

// Result is the stage output.
type Result struct {
	Metadata     *types.JobMetadata
	Requirements *types.AnalyzedRequirements
}

// Analyze runs metadata and requirements extraction. Each call retries
// locally on malformed responses before failing the stage.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	metadata, err := a.extractMetadata(ctx, req)
	if err != nil {
		return nil, err
	}

	requirements, err := a.extractRequirements(ctx, req.JobDescription)
	if err != nil {
		return nil, err
	}

	return &Result{Metadata: metadata, Requirements: requirements}, nil
}

func (a *Analyzer) extractMetadata(ctx context.Context, req Request) (*types.JobMetadata, error) {
	template, err := prompts.Get("analysis.json", "extract-job-metadata")
	if err != nil {
		return nil, &AnalysisError{Message: "missing metadata prompt", Cause: err}
	}
	prompt := prompts.Format(template, map[string]string{
		"ProvidedTitle":   req.ProvidedTitle,
		"ProvidedCompany": req.ProvidedCompany,
		"JobDescription":  req.JobDescription,
	})

	raw, err := a.generateValidated(ctx, prompt, schemas.SchemaJobMetadata, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	var metadata types.JobMetadata
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, &ParseError{Schema: schemas.SchemaJobMetadata, Cause: err}
	}

	if req.ProvidedTitle != "" {
		metadata.Title = req.ProvidedTitle
	}
	if req.ProvidedCompany != "" {
		metadata.Company = req.ProvidedCompany
	}
	metadata.JobURL = req.JobURL
	metadata.Normalize()
	return &metadata, nil
}

func (a *Analyzer) extractRequirements(ctx context.Context, jobDescription string) (*types.AnalyzedRequirements, error) {
	template, err := prompts.Get("analysis.json", "extract-requirements")
	if err != nil {
		return nil, &AnalysisError{Message: "missing requirements prompt", Cause: err}
	}
	prompt := prompts.Format(template, map[string]string{
		"JobDescription": jobDescription,
	})

	raw, err := a.generateValidated(ctx, prompt, schemas.SchemaRequirements, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	var requirements types.AnalyzedRequirements
	if err := json.Unmarshal([]byte(raw), &requirements); err != nil {
		return nil, &ParseError{Schema: schemas.SchemaRequirements, Cause: err}
	}
	requirements.EnsureDefaults()
	return &requirements, nil
}

// generateValidated calls the model and schema-checks the response, retrying
// on malformed output up to maxExtractionAttempts.
func (a *Analyzer) generateValidated(ctx context.Context, prompt, schema string, tier llm.ModelTier) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxExtractionAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", &AnalysisError{Message: "extraction canceled", Cause: err}
		}

		raw, err := a.client.GenerateJSON(ctx, prompt, tier)
		if err != nil {
			lastErr = &AnalysisError{Message: "model call failed", Cause: err}
			log.Printf("Extraction attempt %d/%d failed: %v", attempt, maxExtractionAttempts, err)
			continue
		}

		if err := schemas.Validate(schema, raw); err != nil {
			lastErr = &ParseError{Schema: schema, Cause: err}
			log.Printf("Extraction attempt %d/%d returned malformed %s response: %v",
				attempt, maxExtractionAttempts, schema, err)
			continue
		}

		return raw, nil
	}
	return "", lastErr
}
