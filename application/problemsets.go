// Package application provides the worksheet application services.
package application

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/worksheet-go/domain/problem"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/telemetry"
)

// ProblemSetService generates, stores and checks problem sets.
type ProblemSetService struct {
	generator *problem.Generator
	store     problem.Store
	metrics   telemetry.Metrics
}

// NewProblemSetService creates a problem set service. A nil metrics
// recorder discards measurements.
func NewProblemSetService(generator *problem.Generator, store problem.Store, metrics telemetry.Metrics) (*ProblemSetService, error) {
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if store == nil {
		return nil, errors.New("problem store is required")
	}
	if metrics == nil {
		metrics = telemetry.NoopMetrics{}
	}
	return &ProblemSetService{generator: generator, store: store, metrics: metrics}, nil
}

// Generate validates req, generates the set and writes it to path. On a
// validation error nothing is written.
func (s *ProblemSetService) Generate(ctx context.Context, req problem.Request, path string) (set *problem.Set, err error) {
	ctx, span := telemetry.StartSpan(ctx, "problems.generate",
		attribute.String("problem.operation", string(req.Operation)),
		attribute.Int("problem.count", req.Count),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	set, err = s.generator.Generate(req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, path, set); err != nil {
		return nil, fmt.Errorf("save problem set: %w", err)
	}

	s.metrics.RecordProblemsGenerated(ctx, string(set.Metadata.Operation), len(set.Problems))
	logging.Info().
		Add(logging.Operation(string(set.Metadata.Operation))).
		Add(logging.Seed(set.Metadata.Seed)).
		Add(logging.Count(len(set.Problems))).
		Add(logging.Path(path)).
		Msg("problem set written")

	return set, nil
}

// Inspection is the result of checking a stored problem set.
type Inspection struct {
	Set *problem.Set
	// Violations lists every problem that breaks its operation's invariant.
	Violations []error
}

// OK returns true if every problem holds.
func (i Inspection) OK() bool {
	return len(i.Violations) == 0
}

// Inspect loads the set at path and verifies every problem.
func (s *ProblemSetService) Inspect(ctx context.Context, path string) (*Inspection, error) {
	set, err := s.store.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	result := &Inspection{Set: set}
	if err := set.Verify(); err != nil {
		result.Violations = unjoin(err)
		logging.Warn().
			Add(logging.Path(path)).
			Add(logging.Count(len(result.Violations))).
			Msg("problem set has violations")
	}
	return result, nil
}

// unjoin flattens an errors.Join tree one level.
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
