package validation

import "fmt"

// JudgeError indicates the model-backed review call failed. The validator
// degrades to its deterministic coverage check when this happens.
type JudgeError struct {
	Message string
	Cause   error
}

func (e *JudgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation: %s", e.Message)
}

func (e *JudgeError) Unwrap() error {
	return e.Cause
}
