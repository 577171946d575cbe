// Package rewriting transforms base experience bullets into bullets tailored
// to a specific job's requirements, without fabricating metrics.
package rewriting

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/prompts"
	"github.com/jonathan/resume-agent/internal/schemas"
	"github.com/jonathan/resume-agent/internal/types"
)

// maxConcurrentRoles caps the number of role sections rewritten in parallel.
const maxConcurrentRoles = 4

// Rewriter runs the writing_resume stage.
type Rewriter struct {
	client llm.Client
}

// NewRewriter builds a rewriter on the given client.
func NewRewriter(client llm.Client) *Rewriter {
	return &Rewriter{client: client}
}

// Result is the stage output. Warnings record per-role degradations (failed
// model calls, rejected fabrications) that did not fail the stage.
type Result struct {
	Bullets *types.RewrittenBullets
	// SourceMissing is set when the pointer bank had no bullets at all, so
	// downstream stages know the output is intentionally empty.
	SourceMissing bool
	Warnings      []string
}

// Rewrite tailors the bank's bullets to the analyzed requirements. Role
// sections are rewritten in parallel; a failure in one role degrades that
// role to its source bullets instead of failing the stage. Validation
// feedback from a prior attempt is folded into the prompt when present.
func (r *Rewriter) Rewrite(ctx context.Context, bank *types.PointerBank, requirements *types.AnalyzedRequirements, validationFeedback string) (*Result, error) {
	if bank.IsEmpty() {
		return &Result{
			Bullets:       &types.RewrittenBullets{Sections: []types.RoleSection{}},
			SourceMissing: true,
		}, nil
	}

	template, err := prompts.Get("rewriting.json", "rewrite-role-bullets")
	if err != nil {
		return nil, &RewriteError{Message: "missing rewrite prompt", Cause: err}
	}

	sections := make([]types.RoleSection, len(bank.Sections))
	var warnings []string
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRoles)

	for i, source := range bank.Sections {
		g.Go(func() error {
			rewritten, warn := r.rewriteRole(gctx, template, source, requirements, validationFeedback)
			mu.Lock()
			sections[i] = rewritten
			if warn != "" {
				warnings = append(warnings, warn)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &RewriteError{Message: "rewrite canceled", Cause: err}
	}

	return &Result{
		Bullets:  &types.RewrittenBullets{Sections: sections},
		Warnings: warnings,
	}, nil
}

// rewriteRole rewrites one role section. On any failure it returns the source
// section unchanged plus a warning.
func (r *Rewriter) rewriteRole(ctx context.Context, template string, source types.RoleSection, requirements *types.AnalyzedRequirements, validationFeedback string) (types.RoleSection, string) {
	if len(source.Bullets) == 0 {
		return source, ""
	}

	feedbackLine := ""
	if validationFeedback != "" {
		feedbackLine = "Address this feedback from the previous attempt: " + validationFeedback + "\n"
	}

	prompt := prompts.Format(template, map[string]string{
		"Keywords":           strings.Join(requirements.AllKeywords(), ", "),
		"RequiredSkills":     strings.Join(requirements.RequiredSkills, ", "),
		"MustHaveExperience": strings.Join(requirements.MustHaveExperience, ", "),
		"SoftSkills":         strings.Join(requirements.SoftSkills, ", "),
		"ValidationFeedback": feedbackLine,
		"Role":               source.Role,
		"SourceBullets":      formatSourceBullets(source.Bullets),
	})

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return source, fmt.Sprintf("rewrite failed for role %q, keeping source bullets: %v", source.Role, err)
	}

	if err := schemas.Validate(schemas.SchemaRewrite, raw); err != nil {
		return source, fmt.Sprintf("malformed rewrite response for role %q, keeping source bullets: %v", source.Role, err)
	}

	var response struct {
		Role    string   `json:"role"`
		Bullets []string `json:"bullets"`
	}
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		return source, fmt.Sprintf("unparseable rewrite response for role %q, keeping source bullets: %v", source.Role, err)
	}

	return r.guardBullets(source, response.Bullets, requirements)
}

// guardBullets enforces the no-fabrication rule per bullet. A bullet that
// fabricates or loses a metric is replaced by its source bullet; bullets
// beyond the source count are dropped.
func (r *Rewriter) guardBullets(source types.RoleSection, rewritten []string, requirements *types.AnalyzedRequirements) (types.RoleSection, string) {
	allowedContext := strings.Join(requirements.AllKeywords(), " ")
	if requirements.YearsExperienceRequired != nil {
		allowedContext += " " + strconv.Itoa(*requirements.YearsExperienceRequired)
	}

	out := make([]string, len(source.Bullets))
	var rejected []string
	for i, srcBullet := range source.Bullets {
		if i >= len(rewritten) {
			out[i] = srcBullet
			continue
		}
		fabricated, lost := checkFabrication(srcBullet, rewritten[i], allowedContext)
		if len(fabricated) > 0 || len(lost) > 0 {
			out[i] = srcBullet
			rejected = append(rejected, fmt.Sprintf("bullet %d (fabricated %v, lost %v)", i+1, fabricated, lost))
			continue
		}
		out[i] = rewritten[i]
	}

	warn := ""
	if len(rejected) > 0 {
		warn = fmt.Sprintf("role %q: reverted %s to source", source.Role, strings.Join(rejected, "; "))
	}
	return types.RoleSection{Role: source.Role, Bullets: out}, warn
}

func formatSourceBullets(bullets []string) string {
	var sb strings.Builder
	for i, b := range bullets {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, b)
	}
	return sb.String()
}
