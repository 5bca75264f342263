package application

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/worksheet-go/domain/problem"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/filesystem"
)

func seed(v int64) *int64 { return &v }

func newTestProblemService(t *testing.T) *ProblemSetService {
	t.Helper()
	gen := problem.NewGenerator(problem.WithClock(func() time.Time {
		return time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	}))
	svc, err := NewProblemSetService(gen, filesystem.NewProblemStore(), nil)
	if err != nil {
		t.Fatalf("NewProblemSetService() error = %v", err)
	}
	return svc
}

func TestNewProblemSetService_Requires(t *testing.T) {
	t.Parallel()

	if _, err := NewProblemSetService(nil, filesystem.NewProblemStore(), nil); err == nil {
		t.Error("NewProblemSetService(nil generator) error = nil")
	}
	if _, err := NewProblemSetService(problem.NewGenerator(), nil, nil); err == nil {
		t.Error("NewProblemSetService(nil store) error = nil")
	}
}

func TestProblemSetService_Generate(t *testing.T) {
	t.Parallel()

	svc := newTestProblemService(t)
	path := filepath.Join(t.TempDir(), "out", "division.json")

	set, err := svc.Generate(context.Background(), problem.Request{
		Operation: problem.OperationDivision,
		First:     problem.NewRange(2, 12),
		Second:    problem.NewRange(2, 9),
		Count:     20,
		Seed:      seed(42),
	}, path)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.Problems) != 20 {
		t.Errorf("len(Problems) = %d, want 20", len(set.Problems))
	}
	for i, p := range set.Problems {
		if p.B*p.Answer != p.A {
			t.Errorf("problem %d: %d × %d != %d", i, p.B, p.Answer, p.A)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := doc["metadata"]; !ok {
		t.Error("output has no metadata")
	}
}

func TestProblemSetService_Generate_InvalidOperation(t *testing.T) {
	t.Parallel()

	svc := newTestProblemService(t)
	path := filepath.Join(t.TempDir(), "modulo.json")

	_, err := svc.Generate(context.Background(), problem.Request{
		Operation: "modulo",
		First:     problem.NewRange(1, 9),
		Second:    problem.NewRange(1, 9),
		Count:     5,
	}, path)
	if !errors.Is(err, problem.ErrInvalidOperation) {
		t.Fatalf("Generate() error = %v, want ErrInvalidOperation", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output written after failure: %v", err)
	}
}

func TestProblemSetService_Inspect(t *testing.T) {
	t.Parallel()

	svc := newTestProblemService(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "subtraction.json")

	if _, err := svc.Generate(context.Background(), problem.Request{
		Operation: problem.OperationSubtraction,
		First:     problem.NewRange(1, 9),
		Second:    problem.NewRange(1, 9),
		Count:     10,
		Seed:      seed(3),
	}, path); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	insp, err := svc.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if !insp.OK() {
		t.Errorf("Inspect() violations = %v", insp.Violations)
	}
	if insp.Set.Metadata.Seed != 3 {
		t.Errorf("Seed = %d, want 3", insp.Set.Metadata.Seed)
	}
}

func TestProblemSetService_Inspect_Violations(t *testing.T) {
	t.Parallel()

	svc := newTestProblemService(t)
	path := filepath.Join(t.TempDir(), "broken.json")

	set := &problem.Set{
		Metadata: problem.Metadata{
			Operation: problem.OperationAddition,
			Symbol:    "+",
			Count:     3,
			Ranges:    problem.NewRanges(problem.OperationAddition, problem.NewRange(1, 9), problem.NewRange(1, 9)),
		},
		Problems: []problem.Problem{
			{A: 1, B: 2, Answer: 4},
			{A: 2, B: 2, Answer: 4},
			{A: 3, B: 3, Answer: 7},
		},
	}
	if err := filesystem.NewProblemStore().Save(context.Background(), path, set); err != nil {
		t.Fatal(err)
	}

	insp, err := svc.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if insp.OK() {
		t.Fatal("Inspect() OK = true, want violations")
	}
	if len(insp.Violations) != 2 {
		t.Errorf("len(Violations) = %d, want 2: %v", len(insp.Violations), insp.Violations)
	}
	for _, v := range insp.Violations {
		if !errors.Is(v, problem.ErrInvariantViolated) {
			t.Errorf("violation %v is not ErrInvariantViolated", v)
		}
	}
}

func TestProblemSetService_Inspect_Missing(t *testing.T) {
	t.Parallel()

	svc := newTestProblemService(t)
	_, err := svc.Inspect(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, problem.ErrSetNotFound) {
		t.Errorf("Inspect() error = %v, want ErrSetNotFound", err)
	}
}

func TestProblemSetService_Generate_InvertedRange(t *testing.T) {
	t.Parallel()

	svc := newTestProblemService(t)
	path := filepath.Join(t.TempDir(), "addition.json")

	_, err := svc.Generate(context.Background(), problem.Request{
		Operation: problem.OperationAddition,
		First:     problem.NewRange(5, 3),
		Second:    problem.NewRange(1, 9),
		Count:     5,
	}, path)
	if !errors.Is(err, problem.ErrInvalidRange) {
		t.Fatalf("Generate() error = %v, want ErrInvalidRange", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output written after validation failure: %v", err)
	}
}
