package rewriting

import "fmt"

// RewriteError indicates the rewrite stage failed as a whole. Per-role model
// failures degrade to source bullets and do not produce this error.
type RewriteError struct {
	Message string
	Cause   error
}

func (e *RewriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewriting: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rewriting: %s", e.Message)
}

func (e *RewriteError) Unwrap() error {
	return e.Cause
}
