package process

import (
	"context"
	"fmt"
	"sync"
)

// FakeRunner is an in-memory Runner for tests.
type FakeRunner struct {
	mu sync.Mutex

	// Installed lists the executables LookPath finds.
	Installed map[string]bool
	// Handler produces the result of each Run; nil succeeds with no output.
	Handler func(cmd Command) (Result, error)
	// Calls records every command passed to Run.
	Calls []Command
}

// NewFakeRunner creates a fake runner with the given tools installed.
func NewFakeRunner(installed ...string) *FakeRunner {
	f := &FakeRunner{Installed: make(map[string]bool)}
	for _, name := range installed {
		f.Installed[name] = true
	}
	return f
}

// LookPath implements Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Installed[name] {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return "/usr/bin/" + name, nil
}

// Run implements Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	handler := f.Handler
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if handler == nil {
		return Result{}, nil
	}
	return handler(cmd)
}

// CallCount returns the number of Run calls.
func (f *FakeRunner) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
