package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/worksheet-go/domain/problem"
)

func sampleSet() *problem.Set {
	first := problem.Range{Min: 2, Max: 12}
	second := problem.Range{Min: 2, Max: 9}
	return &problem.Set{
		Metadata: problem.Metadata{
			Operation:   problem.OperationDivision,
			Symbol:      "÷",
			CreatedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			Seed:        7,
			Count:       2,
			Ranges:      problem.NewRanges(problem.OperationDivision, first, second),
			Description: "<b>&</b>",
		},
		Problems: []problem.Problem{
			{A: 24, B: 3, Answer: 8},
			{A: 18, B: 9, Answer: 2},
		},
	}
}

func TestProblemStore_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out", "division.json")
	store := NewProblemStore()
	want := sampleSet()

	if err := store.Save(context.Background(), path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "\n  \"metadata\"") {
		t.Errorf("output not indented with two spaces:\n%s", text)
	}
	if !strings.Contains(text, "<b>&</b>") {
		t.Errorf("description was HTML-escaped:\n%s", text)
	}

	got, err := store.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestProblemStore_SaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := NewProblemStore().Save(context.Background(), filepath.Join(dir, "a.json"), sampleSet()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestProblemStore_LoadMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProblemStore().Load(context.Background(), filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, problem.ErrSetNotFound) {
		t.Errorf("Load() error = %v, want ErrSetNotFound", err)
	}
}

func TestProblemStore_LoadMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProblemStore().Load(context.Background(), path); err == nil {
		t.Error("Load() error = nil, want decode error")
	}
}
