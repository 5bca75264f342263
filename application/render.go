package application

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/worksheet-go/domain/problem"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/render"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/telemetry"
)

// RenderService turns stored problem sets into printable PDFs.
type RenderService struct {
	store    problem.Store
	renderer *render.Renderer
}

// NewRenderService creates a render service.
func NewRenderService(store problem.Store, renderer *render.Renderer) (*RenderService, error) {
	if store == nil {
		return nil, errors.New("problem store is required")
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	return &RenderService{store: store, renderer: renderer}, nil
}

// Render loads the set at input and writes the PDF to output.
func (s *RenderService) Render(ctx context.Context, input, output string) (set *problem.Set, err error) {
	ctx, span := telemetry.StartSpan(ctx, "problems.render",
		attribute.String("render.input", input),
		attribute.String("render.output", output),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	set, err = s.store.Load(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.renderer.RenderSetFile(ctx, set, output); err != nil {
		return nil, err
	}

	logging.Info().
		Add(logging.Operation(string(set.Metadata.Operation))).
		Add(logging.Count(len(set.Problems))).
		Add(logging.Path(output)).
		Msg("problem set rendered")
	return set, nil
}
