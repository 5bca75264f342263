package problem

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for problem set operations.
var (
	// ErrInvalidOperation indicates the operation is not supported.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidRange indicates an operand range has min > max.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidCount indicates the requested problem count is not positive.
	ErrInvalidCount = errors.New("invalid count")

	// ErrInvariantViolated indicates a stored problem does not satisfy its operation.
	ErrInvariantViolated = errors.New("problem invariant violated")

	// ErrSetNotFound indicates a stored problem set does not exist.
	ErrSetNotFound = errors.New("problem set not found")
)

// ValidationError reports a user-facing input error.
type ValidationError struct {
	// Field is the input that failed, e.g. "first-min".
	Field string
	// Message describes the failure.
	Message string
	// Err is the sentinel error classifying the failure.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the classifying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects several validation errors.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}
