package screening

import "fmt"

// ClassifyError indicates the model-backed screening call failed. Callers
// treat it as advisory; the classifier degrades to allowed.
type ClassifyError struct {
	Message string
	Cause   error
}

func (e *ClassifyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("screening: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("screening: %s", e.Message)
}

func (e *ClassifyError) Unwrap() error {
	return e.Cause
}
