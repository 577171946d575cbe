package analysis

import "fmt"

// AnalysisError indicates the extraction stage failed after exhausting its
// local retries.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// ParseError indicates the model returned JSON that failed schema validation
// or could not be unmarshaled.
type ParseError struct {
	Schema string
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("analysis: malformed %s response: %v", e.Schema, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
