package sheet

import "context"

// Compiler turns a page descriptor into a single-page PDF.
type Compiler interface {
	// Name returns the compiler identifier used in diagnostics.
	Name() string

	// Compile writes page.Output from page.Descriptor. A failure should be
	// returned as a *CompileError carrying the tool's diagnostic output.
	Compile(ctx context.Context, page Page) error
}

// Merger concatenates PDFs into one document.
type Merger interface {
	// Name returns the strategy identifier.
	Name() string

	// Available reports whether the strategy can run on this machine.
	Available(ctx context.Context) bool

	// Merge writes inputs, in order, into output.
	Merge(ctx context.Context, inputs []string, output string) error
}

// Status is the lifecycle state of a batch build.
type Status string

// Batch lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusCompiling Status = "compiling"
	StatusMerging   Status = "merging"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
)

// IsTerminal returns true if the build has finished.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusFailed
}

// PageResult reports the outcome of compiling one page.
type PageResult struct {
	Page int
	Path string
	Err  error
}

// OK returns true if the page compiled.
func (r PageResult) OK() bool {
	return r.Err == nil
}
