package compiler

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/process"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/render"
)

var (
	_ sheet.Compiler = (*Typst)(nil)
	_ sheet.Compiler = (*Builtin)(nil)
)

func TestTypst_Compile_CommandLine(t *testing.T) {
	t.Parallel()

	runner := process.NewFakeRunner("typst")
	c := NewTypst(runner, "/project", WithCommand("/opt/typst"), WithArgs("--font-path", "fonts"))
	page := sheet.Page{Number: 2, Descriptor: "/project/sheets/sheet-02.typ", Output: "/tmp/w/sheet-02.pdf"}

	if err := c.Compile(context.Background(), page); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if runner.CallCount() != 1 {
		t.Fatalf("CallCount() = %d, want 1", runner.CallCount())
	}

	got := runner.Calls[0]
	want := "/opt/typst compile --root /project --font-path fonts /project/sheets/sheet-02.typ /tmp/w/sheet-02.pdf"
	if got.String() != want {
		t.Errorf("command = %q, want %q", got.String(), want)
	}
}

func TestTypst_Compile_Failure(t *testing.T) {
	t.Parallel()

	runner := process.NewFakeRunner("typst")
	runner.Handler = func(cmd process.Command) (process.Result, error) {
		return process.Result{ExitCode: 1}, &process.ExitError{
			Command:  cmd.Name,
			ExitCode: 1,
			Stderr:   "error: file not found (searched at /generators/addition.typ)",
		}
	}

	err := NewTypst(runner, "/project").Compile(context.Background(), sheet.Page{Number: 5})

	if !errors.Is(err, sheet.ErrCompileFailed) {
		t.Fatalf("Compile() error = %v, want ErrCompileFailed", err)
	}
	var cerr *sheet.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("Compile() error = %T, want *sheet.CompileError", err)
	}
	if cerr.Page != 5 || !strings.Contains(cerr.Diagnostic, "file not found") {
		t.Errorf("CompileError = %+v", cerr)
	}
}

func TestTypst_Compile_NotInstalled(t *testing.T) {
	t.Parallel()

	runner := process.NewFakeRunner()
	runner.Handler = func(cmd process.Command) (process.Result, error) {
		return process.Result{}, process.ErrNotFound
	}

	err := NewTypst(runner, "/project").Compile(context.Background(), sheet.Page{Number: 1})
	if !errors.Is(err, sheet.ErrToolUnavailable) {
		t.Errorf("Compile() error = %v, want ErrToolUnavailable", err)
	}
}

func TestBuiltin_Compile(t *testing.T) {
	t.Parallel()

	pages := sheet.DefaultPlusOneBatch().PageList(t.TempDir())
	c := NewBuiltin(render.New(render.DefaultOptions()))

	if err := c.Compile(context.Background(), pages[0]); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := os.Stat(pages[0].Output); err != nil {
		t.Errorf("output missing: %v", err)
	}
}
