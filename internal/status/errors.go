package status

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that no snapshot matched the given key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("status snapshot not found: %s", e.Key)
}

// IsNotFound reports whether err is a snapshot-not-found error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StoreError wraps a persistence-layer failure.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("status store %s failed: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
