package merge

import (
	"context"
	"fmt"
	"os"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/process"
)

// Ghostscript merges with the gs pdfwrite device.
type Ghostscript struct {
	runner  process.Runner
	command string
}

// NewGhostscript creates an external merger. An empty command means "gs".
func NewGhostscript(runner process.Runner, command string) *Ghostscript {
	if command == "" {
		command = "gs"
	}
	return &Ghostscript{runner: runner, command: command}
}

// Name implements sheet.Merger.
func (g *Ghostscript) Name() string {
	return "gs"
}

// Available implements sheet.Merger.
func (g *Ghostscript) Available(context.Context) bool {
	_, err := g.runner.LookPath(g.command)
	return err == nil
}

// Merge implements sheet.Merger.
func (g *Ghostscript) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: no input files", sheet.ErrMergeFailed)
	}

	args := []string{
		"-dBATCH",
		"-dNOPAUSE",
		"-q",
		"-sDEVICE=pdfwrite",
		"-sOutputFile=" + output,
	}
	args = append(args, inputs...)

	result, err := g.runner.Run(ctx, process.Command{Name: g.command, Args: args})
	if err != nil {
		_ = os.Remove(output)
		if diag := process.Diagnostic(result, err); diag != "" {
			return fmt.Errorf("%w: %w: %s", sheet.ErrMergeFailed, err, diag)
		}
		return fmt.Errorf("%w: %w", sheet.ErrMergeFailed, err)
	}
	return nil
}
