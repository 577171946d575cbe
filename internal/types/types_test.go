package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobMetadataNormalize(t *testing.T) {
	tests := []struct {
		name      string
		metadata  JobMetadata
		wantLevel RoleLevel
		wantSpons string
	}{
		{
			name:      "known level passes through",
			metadata:  JobMetadata{RoleLevel: "Senior", Sponsorship: "Yes"},
			wantLevel: RoleLevelSenior,
			wantSpons: "Yes",
		},
		{
			name:      "unknown level normalizes",
			metadata:  JobMetadata{RoleLevel: "Ninja", Sponsorship: "No"},
			wantLevel: RoleLevelNotSpecified,
			wantSpons: "No",
		},
		{
			name:      "empty sponsorship gets default",
			metadata:  JobMetadata{RoleLevel: "Mid"},
			wantLevel: RoleLevelMid,
			wantSpons: "Not Specified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.metadata.Normalize()
			assert.Equal(t, tt.wantLevel, tt.metadata.RoleLevel)
			assert.Equal(t, tt.wantSpons, tt.metadata.Sponsorship)
		})
	}
}

func TestJobMetadataNormalizeParsesPostedDate(t *testing.T) {
	m := JobMetadata{RoleLevel: "Mid", PostedDateRaw: "2026-08-15"}
	m.Normalize()
	require.NotNil(t, m.PostedDate)
	assert.Equal(t, 2026, m.PostedDate.Year())

	m2 := JobMetadata{RoleLevel: "Mid", PostedDateRaw: "3 days ago"}
	m2.Normalize()
	assert.Nil(t, m2.PostedDate, "unparseable raw date stays raw only")
	assert.Equal(t, "3 days ago", m2.PostedDateRaw)
}

func TestSponsorshipDenied(t *testing.T) {
	assert.True(t, (&JobMetadata{Sponsorship: "No"}).SponsorshipDenied())
	assert.True(t, (&JobMetadata{Sponsorship: " no "}).SponsorshipDenied())
	assert.False(t, (&JobMetadata{Sponsorship: "Yes"}).SponsorshipDenied())
	assert.False(t, (&JobMetadata{Sponsorship: "Not Specified"}).SponsorshipDenied())
	assert.False(t, (&JobMetadata{Sponsorship: "No sponsorship needed"}).SponsorshipDenied())
}

func TestEnsureDefaults(t *testing.T) {
	var r AnalyzedRequirements
	r.EnsureDefaults()
	assert.NotNil(t, r.KeywordsForATS)
	assert.NotNil(t, r.RequiredSkills)
	assert.NotNil(t, r.SoftSkills)
	assert.NotNil(t, r.MustHaveExperience)
	assert.NotNil(t, r.NiceToHave)
	assert.NotNil(t, r.DomainKnowledge)
	assert.Empty(t, r.KeywordsForATS)
}

func TestEnsureDefaultsClearsNegativeYears(t *testing.T) {
	bad := -2
	r := AnalyzedRequirements{YearsExperienceRequired: &bad}
	r.EnsureDefaults()
	assert.Nil(t, r.YearsExperienceRequired)

	five := 5
	r = AnalyzedRequirements{YearsExperienceRequired: &five}
	r.EnsureDefaults()
	assert.Equal(t, 5, *r.YearsExperienceRequired)
}

func TestAllKeywordsDedupes(t *testing.T) {
	r := AnalyzedRequirements{
		KeywordsForATS:     []string{"Go", "Kubernetes", ""},
		RequiredSkills:     []string{"go", "PostgreSQL"},
		MustHaveExperience: []string{"kubernetes", "Docker"},
	}
	got := r.AllKeywords()
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL", "Docker"}, got)
}

func TestValidationResultClamp(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{"in range", 0.73, 0.73},
		{"percentage scale", 85.0, 0.85},
		{"negative", -0.5, 0.0},
		{"above 100", 150.0, 1.0},
		{"exactly one", 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidationResult{KeywordCoverageScore: tt.score}
			v.Clamp()
			assert.InDelta(t, tt.want, v.KeywordCoverageScore, 1e-9)
			assert.NotNil(t, v.Issues)
		})
	}
}

func TestScreeningTerminalStatus(t *testing.T) {
	_, terminal := ScreeningResult{Allowed: true, Reason: ReasonNone}.TerminalStatus()
	assert.False(t, terminal)

	status, terminal := ScreeningResult{Allowed: false, Reason: ReasonNoSponsorship}.TerminalStatus()
	assert.True(t, terminal)
	assert.Equal(t, StatusNoSponsorship, status)

	status, terminal = ScreeningResult{Allowed: false, Reason: ReasonOtherBlocker}.TerminalStatus()
	assert.True(t, terminal)
	assert.Equal(t, StatusScreeningBlocked, status)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusProcessing.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusNoSponsorship.IsTerminal())
	assert.True(t, StatusScreeningBlocked.IsTerminal())
}

func TestPointerBank(t *testing.T) {
	var nilBank *PointerBank
	assert.True(t, nilBank.IsEmpty())

	empty := &PointerBank{Sections: []RoleSection{{Role: "Engineer"}}}
	assert.True(t, empty.IsEmpty())

	bank := &PointerBank{Sections: []RoleSection{
		{Role: "Engineer", Bullets: []string{"built a thing", "shipped another"}},
		{Role: "Intern", Bullets: []string{"fixed bugs"}},
	}}
	assert.False(t, bank.IsEmpty())
	assert.Equal(t, 3, bank.BulletCount())
}

func TestRewrittenBulletsForRole(t *testing.T) {
	r := &RewrittenBullets{Sections: []RoleSection{
		{Role: "Software Engineer", Bullets: []string{"a", "b"}},
	}}

	got, ok := r.ForRole("software engineer")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	_, ok = r.ForRole("Barista")
	assert.False(t, ok)

	var nilBullets *RewrittenBullets
	_, ok = nilBullets.ForRole("anything")
	assert.False(t, ok)
	assert.Equal(t, "", nilBullets.AllText())
}

func TestWorkflowStateRecording(t *testing.T) {
	state := &WorkflowState{Status: StatusProcessing}
	state.EnterStep(StepScreening)
	state.EnterStep(StepLoadingPointers)
	state.RecordError(StepLoadingPointers, "pointer source unreachable")

	assert.Equal(t, StepLoadingPointers, state.CurrentStep)
	assert.Equal(t, []Step{StepScreening, StepLoadingPointers}, state.StepHistory)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, StepLoadingPointers, state.Errors[0].Step)
}
