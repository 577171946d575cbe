package types

// AnalyzedRequirements is the structured breakdown of a job description used
// to steer rewriting and validation. All slice fields are non-nil after
// EnsureDefaults so downstream stages can range over them without nil checks.
type AnalyzedRequirements struct {
	RequiredSkills          []string `json:"required_skills"`
	PreferredSkills         []string `json:"preferred_skills"`
	SoftSkills              []string `json:"soft_skills"`
	KeyResponsibilities     []string `json:"key_responsibilities"`
	MustHaveExperience      []string `json:"must_have_experience"`
	NiceToHave              []string `json:"nice_to_have"`
	DomainKnowledge         []string `json:"domain_knowledge"`
	YearsExperienceRequired *int     `json:"years_experience_required,omitempty"`
	EducationRequirements   string   `json:"education_requirements,omitempty"`
	Certifications          []string `json:"certifications"`
	KeywordsForATS          []string `json:"keywords_for_ats"`
}

// EnsureDefaults replaces nil slices with empty ones and clears a negative
// years-of-experience value.
func (r *AnalyzedRequirements) EnsureDefaults() {
	if r.RequiredSkills == nil {
		r.RequiredSkills = []string{}
	}
	if r.PreferredSkills == nil {
		r.PreferredSkills = []string{}
	}
	if r.SoftSkills == nil {
		r.SoftSkills = []string{}
	}
	if r.KeyResponsibilities == nil {
		r.KeyResponsibilities = []string{}
	}
	if r.MustHaveExperience == nil {
		r.MustHaveExperience = []string{}
	}
	if r.NiceToHave == nil {
		r.NiceToHave = []string{}
	}
	if r.DomainKnowledge == nil {
		r.DomainKnowledge = []string{}
	}
	if r.Certifications == nil {
		r.Certifications = []string{}
	}
	if r.KeywordsForATS == nil {
		r.KeywordsForATS = []string{}
	}
	if r.YearsExperienceRequired != nil && *r.YearsExperienceRequired < 0 {
		r.YearsExperienceRequired = nil
	}
}

// AllKeywords returns the ATS keywords plus required skills and must-have
// experience, deduped case-insensitively, preserving first-seen order. This
// is the working set for coverage scoring.
func (r *AnalyzedRequirements) AllKeywords() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(r.KeywordsForATS)+len(r.RequiredSkills)+len(r.MustHaveExperience))
	for _, group := range [][]string{r.KeywordsForATS, r.RequiredSkills, r.MustHaveExperience} {
		for _, kw := range group {
			key := normalizeKeyword(kw)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}
