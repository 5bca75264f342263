// Package process runs external tools such as typst and gs.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/resilience"
)

// ErrNotFound indicates the executable is not on PATH.
var ErrNotFound = errors.New("executable not found")

// Command describes one tool invocation.
type Command struct {
	// Name is the executable, resolved through PATH.
	Name string
	// Args are passed verbatim.
	Args []string
	// Dir is the working directory.
	Dir string
	// Env adds variables to the inherited environment.
	Env map[string]string
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is the captured outcome of a command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// ExitError reports a non-zero exit together with the tool's stderr.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

// Runner runs external commands.
type Runner interface {
	// Run executes cmd and waits for it. A non-zero exit returns *ExitError.
	Run(ctx context.Context, cmd Command) (Result, error)

	// LookPath resolves an executable name.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	return r.run(ctx, c)
}

// GuardedRunner runs each tool of an inner runner behind its own breaker.
type GuardedRunner struct {
	inner Runner
	guard *resilience.Guard
}

// NewGuardedRunner wraps inner with guard.
func NewGuardedRunner(inner Runner, guard *resilience.Guard) *GuardedRunner {
	return &GuardedRunner{inner: inner, guard: guard}
}

// LookPath implements Runner.
func (r *GuardedRunner) LookPath(name string) (string, error) {
	return r.inner.LookPath(name)
}

// Run implements Runner.
func (r *GuardedRunner) Run(ctx context.Context, c Command) (Result, error) {
	var result Result
	_, err := r.guard.Run(ctx, c.Name, func(ctx context.Context) ([]byte, error) {
		var runErr error
		result, runErr = r.inner.Run(ctx, c)
		return result.Stdout, runErr
	})
	return result, err
}

// TripsBreaker reports whether err means the tool itself is broken: it is
// missing, was killed, or could not be started. A normal non-zero exit
// reports a problem with the input, which the next run may not have.
func TripsBreaker(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode < 0
	}
	return true
}

func (r *ExecRunner) run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) // #nosec G204 -- tool names come from configuration
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range c.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Debug().
		Add(logging.Tool(c.Name)).
		Add(logging.Str("command", c.String())).
		Msg("running external tool")

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, &ExitError{
			Command:  c.Name,
			ExitCode: result.ExitCode,
			Stderr:   stderr.String(),
		}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return result, fmt.Errorf("%w: %s", ErrNotFound, c.Name)
	}
	return result, fmt.Errorf("run %s: %w", c.Name, err)
}

// Diagnostic returns the most useful text from a failed run.
func Diagnostic(result Result, err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && strings.TrimSpace(exitErr.Stderr) != "" {
		return exitErr.Stderr
	}
	if s := strings.TrimSpace(string(result.Stderr)); s != "" {
		return s
	}
	return strings.TrimSpace(string(result.Stdout))
}
