package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/felixgeelhaar/worksheet-go/domain/problem"
	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

func testSet(t *testing.T, op problem.Operation, count int) *problem.Set {
	t.Helper()
	seed := int64(42)
	set, err := problem.NewGenerator(problem.WithClock(func() time.Time {
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	})).Generate(problem.Request{
		Operation: op,
		First:     problem.NewRange(2, 12),
		Second:    problem.NewRange(2, 9),
		Count:     count,
		Seed:      &seed,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return set
}

func TestRenderer_Title(t *testing.T) {
	t.Parallel()

	r := New(Options{Language: language.English})
	if got := r.Title(problem.OperationMultiplication); got != "Multiplication Practice" {
		t.Errorf("Title() = %q", got)
	}
}

func TestRenderer_RenderSet(t *testing.T) {
	t.Parallel()

	for _, op := range problem.AllOperations() {
		t.Run(op.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := New(DefaultOptions()).RenderSet(context.Background(), testSet(t, op, 55), &buf); err != nil {
				t.Fatalf("RenderSet() error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
			}
		})
	}
}

func TestRenderer_RenderSet_InvalidOperation(t *testing.T) {
	t.Parallel()

	set := &problem.Set{Metadata: problem.Metadata{Operation: "modulo"}}
	err := New(DefaultOptions()).RenderSet(context.Background(), set, &bytes.Buffer{})
	if !errors.Is(err, problem.ErrInvalidOperation) {
		t.Errorf("RenderSet() error = %v, want ErrInvalidOperation", err)
	}
}

func TestRenderer_RenderSet_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(DefaultOptions()).RenderSet(ctx, testSet(t, problem.OperationAddition, 5), &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderSet() error = %v, want context.Canceled", err)
	}
}

func TestRenderer_RenderSetFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "set.pdf")
	if err := New(DefaultOptions()).RenderSetFile(context.Background(), testSet(t, problem.OperationDivision, 20), path); err != nil {
		t.Fatalf("RenderSetFile() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() == 0 {
		t.Error("rendered file is empty")
	}
}

func TestRenderer_RenderPlusOnePageFile(t *testing.T) {
	t.Parallel()

	pages := sheet.DefaultPlusOneBatch().PageList(t.TempDir())
	r := New(Options{PageSize: "Letter", Columns: 1})
	if err := r.RenderPlusOnePageFile(context.Background(), pages[9]); err != nil {
		t.Fatalf("RenderPlusOnePageFile() error = %v", err)
	}
	data, err := os.ReadFile(pages[9].Output)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("page output is not a PDF")
	}
}
