package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScreening(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{
			name: "valid allowed",
			json: `{"allowed": true, "reason": "none"}`,
		},
		{
			name: "valid blocked with detail",
			json: `{"allowed": false, "reason": "no_sponsorship", "detail": "posting says no visa support"}`,
		},
		{
			name:    "unknown reason",
			json:    `{"allowed": false, "reason": "bad_vibes"}`,
			wantErr: true,
		},
		{
			name:    "missing allowed",
			json:    `{"reason": "none"}`,
			wantErr: true,
		},
		{
			name:    "extra field rejected",
			json:    `{"allowed": true, "reason": "none", "confidence": 0.9}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(SchemaScreening, tt.json)
			if tt.wantErr {
				require.Error(t, err)
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				assert.NotEmpty(t, ve.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJobMetadata(t *testing.T) {
	valid := `{"title": "Software Engineer", "company": "Acme", "role_level": "Mid", "sponsorship": "Yes"}`
	assert.NoError(t, Validate(SchemaJobMetadata, valid))

	missing := `{"title": "Software Engineer", "company": "Acme"}`
	assert.Error(t, Validate(SchemaJobMetadata, missing))

	emptyTitle := `{"title": "", "company": "Acme", "role_level": "Mid", "sponsorship": "Yes"}`
	assert.Error(t, Validate(SchemaJobMetadata, emptyTitle))
}

func TestValidateRequirements(t *testing.T) {
	valid := `{"required_skills": ["Go"], "keywords_for_ats": ["backend", "gRPC"], "years_experience_required": 5}`
	assert.NoError(t, Validate(SchemaRequirements, valid))

	nullYears := `{"required_skills": ["Go"], "keywords_for_ats": [], "years_experience_required": null}`
	assert.NoError(t, Validate(SchemaRequirements, nullYears))

	wrongType := `{"required_skills": "Go", "keywords_for_ats": []}`
	assert.Error(t, Validate(SchemaRequirements, wrongType))

	negativeYears := `{"required_skills": ["Go"], "keywords_for_ats": [], "years_experience_required": -1}`
	assert.Error(t, Validate(SchemaRequirements, negativeYears))
}

func TestValidateRewrite(t *testing.T) {
	valid := `{"role": "Engineer", "bullets": ["Shipped a service handling 10k rps"]}`
	assert.NoError(t, Validate(SchemaRewrite, valid))

	emptyBullets := `{"role": "Engineer", "bullets": []}`
	assert.Error(t, Validate(SchemaRewrite, emptyBullets))
}

func TestValidateValidationResult(t *testing.T) {
	valid := `{"passed": false, "keyword_coverage_score": 0.55, "issues": ["missing Kubernetes"], "feedback_for_rewrite": "mention Kubernetes"}`
	assert.NoError(t, Validate(SchemaValidation, valid))

	negative := `{"passed": true, "keyword_coverage_score": -1}`
	assert.Error(t, Validate(SchemaValidation, negative))
}

func TestValidateUnknownSchema(t *testing.T) {
	err := Validate("nonexistent", `{}`)
	require.Error(t, err)
	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}

func TestValidateMalformedDocument(t *testing.T) {
	err := Validate(SchemaScreening, `{not json`)
	require.Error(t, err)
	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}
