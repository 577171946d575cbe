package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/types"
)

type stubClient struct {
	response string
	err      error
	calls    int
}

func (s *stubClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubClient) GetModel(tier llm.ModelTier) string { return "stub" }

func (s *stubClient) Close() error { return nil }

func TestClassifyPhraseShortCircuit(t *testing.T) {
	client := &stubClient{}
	c := NewClassifier(client, nil)

	result := c.Classify(context.Background(),
		"Senior Backend Engineer. Note: no visa sponsorship available for this role.")

	assert.False(t, result.Allowed)
	assert.Equal(t, types.ReasonNoSponsorship, result.Reason)
	assert.Zero(t, client.calls, "phrase match must not cost a model call")
}

func TestClassifyNonSponsorshipBlocker(t *testing.T) {
	c := NewClassifier(&stubClient{}, nil)

	result := c.Classify(context.Background(),
		"Systems Engineer. Active security clearance required.")

	assert.False(t, result.Allowed)
	assert.Equal(t, types.ReasonOtherBlocker, result.Reason)
}

func TestClassifyCustomPhrases(t *testing.T) {
	client := &stubClient{response: `{"allowed": true, "reason": "none"}`}
	c := NewClassifier(client, []string{"on-site in antarctica"})

	result := c.Classify(context.Background(),
		"No visa sponsorship available.")
	assert.True(t, result.Allowed, "custom phrase list replaces the defaults")
	assert.Equal(t, 1, client.calls)
}

func TestClassifyModelVerdict(t *testing.T) {
	client := &stubClient{
		response: `{"allowed": false, "reason": "no_sponsorship", "detail": "sponsorship refused in closing paragraph"}`,
	}
	c := NewClassifier(client, nil)

	result := c.Classify(context.Background(), "A perfectly ordinary job description.")
	assert.False(t, result.Allowed)
	assert.Equal(t, types.ReasonNoSponsorship, result.Reason)
	assert.NotEmpty(t, result.Detail)
}

func TestClassifyModelFailureAllows(t *testing.T) {
	client := &stubClient{err: errors.New("deadline exceeded")}
	c := NewClassifier(client, nil)

	result := c.Classify(context.Background(), "An ordinary job description.")
	assert.True(t, result.Allowed)
	assert.Equal(t, types.ReasonNone, result.Reason)
}

func TestClassifyMalformedResponseAllows(t *testing.T) {
	client := &stubClient{response: `{"allowed": "maybe"}`}
	c := NewClassifier(client, nil)

	result := c.Classify(context.Background(), "An ordinary job description.")
	assert.True(t, result.Allowed)
}

func TestClassifyBlockedWithoutReason(t *testing.T) {
	client := &stubClient{response: `{"allowed": false, "reason": "none"}`}
	c := NewClassifier(client, nil)

	result := c.Classify(context.Background(), "An ordinary job description.")
	assert.False(t, result.Allowed)
	assert.Equal(t, types.ReasonOtherBlocker, result.Reason)
}
