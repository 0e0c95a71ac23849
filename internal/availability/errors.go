package availability

import (
	"errors"
	"fmt"
)

// ErrInvalidRange marks a malformed request: inverted date range or a
// non-positive slot duration. Caller bug, never retried.
var ErrInvalidRange = errors.New("invalid availability range")

// CollaboratorError wraps a failed calendar collaborator call. The
// failure is surfaced unchanged and is retryable from the caller's
// point of view.
type CollaboratorError struct {
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("calendar collaborator: %v", e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error is a collaborator failure
// worth retrying.
func IsRetryable(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}
