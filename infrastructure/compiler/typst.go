// Package compiler turns batch page descriptors into single-page PDFs.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/process"
)

// Typst compiles descriptors with the typst command line tool.
type Typst struct {
	runner  process.Runner
	command string
	root    string
	args    []string
	timeout time.Duration
}

// TypstOption configures a Typst compiler.
type TypstOption func(*Typst)

// WithCommand sets the typst executable.
func WithCommand(command string) TypstOption {
	return func(t *Typst) {
		if command != "" {
			t.command = command
		}
	}
}

// WithArgs adds arguments placed before the source file.
func WithArgs(args ...string) TypstOption {
	return func(t *Typst) {
		t.args = append(t.args, args...)
	}
}

// WithTimeout bounds each page compile.
func WithTimeout(d time.Duration) TypstOption {
	return func(t *Typst) {
		t.timeout = d
	}
}

// NewTypst creates a compiler that resolves template imports against root.
func NewTypst(runner process.Runner, root string, opts ...TypstOption) *Typst {
	t := &Typst{
		runner:  runner,
		command: "typst",
		root:    root,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements sheet.Compiler.
func (t *Typst) Name() string {
	return "typst"
}

// Compile implements sheet.Compiler.
func (t *Typst) Compile(ctx context.Context, page sheet.Page) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := []string{"compile", "--root", t.root}
	args = append(args, t.args...)
	args = append(args, page.Descriptor, page.Output)

	result, err := t.runner.Run(ctx, process.Command{Name: t.command, Args: args})
	if err == nil {
		return nil
	}

	cerr := &sheet.CompileError{
		Page:       page.Number,
		Tool:       t.Name(),
		Diagnostic: process.Diagnostic(result, err),
		Err:        err,
	}
	if errors.Is(err, process.ErrNotFound) {
		cerr.Err = fmt.Errorf("%w: %w", sheet.ErrToolUnavailable, err)
	}
	return cerr
}
