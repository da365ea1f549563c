package dispatch

import (
	"errors"
	"fmt"
	"time"
)

// ErrInactive is returned by Log when the engine has been closed.
var ErrInactive = errors.New("dispatch: engine is not active")

// WorkerError reports a failure that occurred on the worker goroutine
// while processing an earlier record. It is delivered to whichever
// producer next calls into the engine, which is not necessarily the
// producer whose record caused it.
type WorkerError struct {
	// When is the time the worker observed the failure
	When time.Time
	// Err is the formatter or sink error (possibly several, combined)
	Err error
}

// Error implements the error interface
func (e *WorkerError) Error() string {
	return fmt.Sprintf("dispatch: worker failure at %s: %v", e.When.Format(time.RFC3339Nano), e.Err)
}

// Unwrap returns the underlying cause
func (e *WorkerError) Unwrap() error {
	return e.Err
}
