package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for batch operations.
var (
	// ErrInvalidBatch indicates the batch definition is incomplete.
	ErrInvalidBatch = errors.New("invalid batch")

	// ErrCompileFailed indicates a page did not compile.
	ErrCompileFailed = errors.New("page compile failed")

	// ErrMergeFailed indicates a merge strategy failed.
	ErrMergeFailed = errors.New("pdf merge failed")

	// ErrNoMergerAvailable indicates no merge strategy produced an output.
	ErrNoMergerAvailable = errors.New("no pdf merge strategy succeeded")

	// ErrToolUnavailable indicates an external tool is missing or disabled.
	ErrToolUnavailable = errors.New("tool unavailable")
)

// CompileError carries the compiler diagnostic for a failed page.
type CompileError struct {
	Page       int
	Tool       string
	Diagnostic string
	Err        error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("page %d: %s failed", e.Page, e.Tool)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if d := strings.TrimSpace(e.Diagnostic); d != "" {
		msg += "\n" + d
	}
	return msg
}

// Unwrap allows errors.Is to match ErrCompileFailed and the cause.
func (e *CompileError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCompileFailed}
	}
	return []error{ErrCompileFailed, e.Err}
}

// MergeAttempt records the outcome of one merge strategy.
type MergeAttempt struct {
	Strategy string
	Skipped  bool
	Err      error
}

// MergeError names every strategy attempted and why it failed.
type MergeError struct {
	Attempts []MergeAttempt
}

// Error implements the error interface.
func (e *MergeError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrNoMergerAvailable.Error() + ": no strategies configured"
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		status := "failed"
		if a.Skipped {
			status = "unavailable"
		}
		if a.Err != nil {
			parts[i] = fmt.Sprintf("%s %s: %v", a.Strategy, status, a.Err)
		} else {
			parts[i] = fmt.Sprintf("%s %s", a.Strategy, status)
		}
	}
	return ErrNoMergerAvailable.Error() + "; " + strings.Join(parts, "; ")
}

// Unwrap allows errors.Is to match ErrNoMergerAvailable.
func (e *MergeError) Unwrap() error {
	return ErrNoMergerAvailable
}
