package controller

import (
	"errors"
	"fmt"

	"github.com/sigweihq/coffeepay/pkg/types"
)

var (
	// ErrSubmissionInFlight is returned when a purchase is submitted while another is pending
	ErrSubmissionInFlight = errors.New("controller: purchase already in flight")
	// ErrInvalidQuantity is returned for quantities outside the offered set
	ErrInvalidQuantity = errors.New("controller: invalid quantity")
	// ErrSubmitterPanic wraps a panic raised inside the transaction submitter
	ErrSubmitterPanic = errors.New("controller: submitter panicked")
)

// ValidationError is returned when a purchase is rejected before any chain call.
// Notice carries the user-visible message that was emitted.
type ValidationError struct {
	Notice types.Notice
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("controller: purchase rejected: %s", e.Notice.Kind)
}

// SubmissionError is returned when the submitter reports a failure
type SubmissionError struct {
	ID  string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("controller: submission %s failed: %v", e.ID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
