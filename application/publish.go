package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/worksheet-go/domain/artifact"
	"github.com/felixgeelhaar/worksheet-go/domain/problem"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/telemetry"
)

// StoreOpener returns the artifact store for a publish target URI.
type StoreOpener func(ctx context.Context, target string) (artifact.Store, error)

// Publisher pushes generated files to an artifact store.
type Publisher struct {
	open     StoreOpener
	problems problem.Store
}

// NewPublisher creates a publisher. The problem store is used to describe
// problem set files in the artifact metadata.
func NewPublisher(open StoreOpener, problems problem.Store) (*Publisher, error) {
	if open == nil {
		return nil, errors.New("store opener is required")
	}
	return &Publisher{open: open, problems: problems}, nil
}

// PublishRequest describes one file to publish.
type PublishRequest struct {
	Path   string
	Target string
	// ID fixes the artifact ID; empty lets the store choose.
	ID string
}

// Publish stores the file and returns its reference.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (ref artifact.Ref, err error) {
	ctx, span := telemetry.StartSpan(ctx, "artifact.publish",
		attribute.String("artifact.path", req.Path),
		attribute.String("artifact.target", req.Target),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if req.Target == "" {
		return artifact.Ref{}, fmt.Errorf("%w: no target given", artifact.ErrUnsupportedTarget)
	}

	store, err := p.open(ctx, req.Target)
	if err != nil {
		return artifact.Ref{}, err
	}

	opts := artifact.OptionsForFile(filepath.Base(req.Path)).WithID(req.ID)
	if opts.Kind == artifact.KindProblemSet && p.problems != nil {
		set, err := p.problems.Load(ctx, req.Path)
		if err != nil {
			return artifact.Ref{}, err
		}
		opts = opts.
			WithMetadata("operation", string(set.Metadata.Operation)).
			WithMetadata("seed", strconv.FormatInt(set.Metadata.Seed, 10)).
			WithMetadata("count", strconv.Itoa(set.Metadata.Count))
	}

	f, err := os.Open(req.Path) // #nosec G304 -- path comes from the user
	if err != nil {
		return artifact.Ref{}, fmt.Errorf("open %s: %w", req.Path, err)
	}
	defer f.Close()

	ref, err = store.Store(ctx, f, opts)
	if err != nil {
		return artifact.Ref{}, fmt.Errorf("publish %s: %w", req.Path, err)
	}

	logging.Info().
		Add(logging.Path(req.Path)).
		Add(logging.Str("artifact_id", ref.ID)).
		Add(logging.Str("location", ref.Location)).
		Msg("artifact published")
	return ref, nil
}
