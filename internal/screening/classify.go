// Package screening implements the pre-flight classifier that decides
// whether a job posting is worth tailoring a resume for.
package screening

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/prompts"
	"github.com/jonathan/resume-agent/internal/schemas"
	"github.com/jonathan/resume-agent/internal/types"
)

// DefaultBlockerPhrases are matched case-insensitively against the raw job
// description before any model call is made.
var DefaultBlockerPhrases = []string{
	"no visa sponsorship",
	"no sponsorship available",
	"unable to sponsor",
	"cannot sponsor",
	"will not sponsor",
	"not able to sponsor",
	"sponsorship is not available",
	"without sponsorship",
	"us citizens only",
	"citizenship required",
	"security clearance required",
}

// Classifier screens job descriptions for disqualifying language. The phrase
// check runs first so obviously blocked postings never cost a model call.
type Classifier struct {
	client         llm.Client
	blockerPhrases []string
}

// NewClassifier builds a classifier. Passing nil phrases selects the
// defaults; passing an empty non-nil slice disables the phrase check.
func NewClassifier(client llm.Client, blockerPhrases []string) *Classifier {
	if blockerPhrases == nil {
		blockerPhrases = DefaultBlockerPhrases
	}
	return &Classifier{client: client, blockerPhrases: blockerPhrases}
}

// Classify screens a job description. A failure of the underlying model call
// degrades to allowed with a logged warning; screening is a cost saver, not a
// safety gate, so it must never block a legitimate run.
func (c *Classifier) Classify(ctx context.Context, jobDescription string) types.ScreeningResult {
	if result, blocked := c.matchPhrases(jobDescription); blocked {
		return result
	}

	result, err := c.classifyWithModel(ctx, jobDescription)
	if err != nil {
		log.Printf("Screening model call failed, allowing run through: %v", err)
		return types.ScreeningResult{Allowed: true, Reason: types.ReasonNone}
	}
	return result
}

// matchPhrases checks the raw text for configured blocker phrases.
func (c *Classifier) matchPhrases(jobDescription string) (types.ScreeningResult, bool) {
	lower := strings.ToLower(jobDescription)
	for _, phrase := range c.blockerPhrases {
		if !strings.Contains(lower, strings.ToLower(phrase)) {
			continue
		}
		reason := types.ReasonOtherBlocker
		if strings.Contains(phrase, "sponsor") {
			reason = types.ReasonNoSponsorship
		}
		return types.ScreeningResult{
			Allowed: false,
			Reason:  reason,
			Detail:  "posting contains blocker phrase: " + phrase,
		}, true
	}
	return types.ScreeningResult{}, false
}

func (c *Classifier) classifyWithModel(ctx context.Context, jobDescription string) (types.ScreeningResult, error) {
	template, err := prompts.Get("screening.json", "screen-job-posting")
	if err != nil {
		return types.ScreeningResult{}, err
	}
	prompt := prompts.Format(template, map[string]string{
		"BlockerPhrases": strings.Join(c.blockerPhrases, "; "),
		"JobDescription": jobDescription,
	})

	raw, err := c.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return types.ScreeningResult{}, &ClassifyError{Message: "model call failed", Cause: err}
	}

	if err := schemas.Validate(schemas.SchemaScreening, raw); err != nil {
		return types.ScreeningResult{}, &ClassifyError{Message: "malformed screening response", Cause: err}
	}

	var result types.ScreeningResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return types.ScreeningResult{}, &ClassifyError{Message: "failed to parse screening response", Cause: err}
	}

	// A blocked verdict without a recognizable reason still blocks, under
	// the catch-all reason.
	if !result.Allowed && result.Reason == types.ReasonNone {
		result.Reason = types.ReasonOtherBlocker
	}
	return result, nil
}
