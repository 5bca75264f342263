package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/worksheet-go/domain/problem"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/merge"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/render"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/filesystem"
)

func TestNewRenderService_Requires(t *testing.T) {
	t.Parallel()

	if _, err := NewRenderService(nil, render.New(render.Options{})); err == nil {
		t.Error("NewRenderService(nil store) error = nil")
	}
	if _, err := NewRenderService(filesystem.NewProblemStore(), nil); err == nil {
		t.Error("NewRenderService(nil renderer) error = nil")
	}
}

func TestRenderService_Render(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "multiplication.json")
	output := filepath.Join(dir, "pdf", "multiplication.pdf")

	svc := newTestProblemService(t)
	if _, err := svc.Generate(context.Background(), problem.Request{
		Operation: problem.OperationMultiplication,
		First:     problem.NewRange(2, 9),
		Second:    problem.NewRange(2, 9),
		Count:     30,
		Seed:      seed(11),
	}, input); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	rs, err := NewRenderService(filesystem.NewProblemStore(), render.New(render.DefaultOptions()))
	if err != nil {
		t.Fatal(err)
	}
	set, err := rs.Render(context.Background(), input, output)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if set.Metadata.Count != 30 {
		t.Errorf("Count = %d, want 30", set.Metadata.Count)
	}

	n, err := merge.PageCount(output)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if n != 2 {
		t.Errorf("PageCount() = %d, want problems page and answer key", n)
	}
}

func TestRenderService_Render_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rs, err := NewRenderService(filesystem.NewProblemStore(), render.New(render.DefaultOptions()))
	if err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.pdf")
	if _, err := rs.Render(context.Background(), filepath.Join(dir, "missing.json"), output); !errors.Is(err, problem.ErrSetNotFound) {
		t.Errorf("Render() error = %v, want ErrSetNotFound", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output written after failure: %v", err)
	}
}
