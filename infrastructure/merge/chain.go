package merge

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/process"
)

// Merge attempt outcomes reported to observers.
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomeFailure     = "failure"
)

// Observer is told about every strategy the chain considers.
type Observer func(ctx context.Context, strategy, outcome string)

// Chain tries merge strategies in order until one succeeds.
type Chain struct {
	mergers  []sheet.Merger
	observer Observer
}

// NewChain creates a chain over the given strategies.
func NewChain(mergers ...sheet.Merger) *Chain {
	return &Chain{mergers: mergers}
}

// WithObserver sets the attempt observer.
func (c *Chain) WithObserver(o Observer) *Chain {
	c.observer = o
	return c
}

// Strategies returns the strategy names in order.
func (c *Chain) Strategies() []string {
	names := make([]string, len(c.mergers))
	for i, m := range c.mergers {
		names[i] = m.Name()
	}
	return names
}

// Merge writes inputs into output with the first strategy that works and
// returns its name. Unavailable strategies are skipped and failing ones
// recorded; if none succeeds the error is a *sheet.MergeError and output
// does not exist.
func (c *Chain) Merge(ctx context.Context, inputs []string, output string) (string, error) {
	var attempts []sheet.MergeAttempt

	for _, m := range c.mergers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if !m.Available(ctx) {
			logging.Warn().
				Add(logging.Strategy(m.Name())).
				Msg("merge strategy unavailable, skipping")
			attempts = append(attempts, sheet.MergeAttempt{Strategy: m.Name(), Skipped: true, Err: sheet.ErrToolUnavailable})
			c.observe(ctx, m.Name(), OutcomeUnavailable)
			continue
		}

		err := m.Merge(ctx, inputs, output)
		if err == nil {
			logging.Debug().
				Add(logging.Strategy(m.Name())).
				Add(logging.Count(len(inputs))).
				Add(logging.Path(output)).
				Msg("merged pages")
			c.observe(ctx, m.Name(), OutcomeSuccess)
			return m.Name(), nil
		}

		logging.Warn().
			Add(logging.Strategy(m.Name())).
			Add(logging.ErrorField(err)).
			Msg("merge strategy failed, trying next")
		attempt := sheet.MergeAttempt{Strategy: m.Name(), Err: err}
		if isUnavailable(err) {
			attempt.Skipped = true
		}
		attempts = append(attempts, attempt)
		c.observe(ctx, m.Name(), OutcomeFailure)
	}

	if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
		logging.Warn().Add(logging.Path(output)).Add(logging.ErrorField(err)).Msg("remove partial output")
	}
	return "", &sheet.MergeError{Attempts: attempts}
}

func (c *Chain) observe(ctx context.Context, strategy, outcome string) {
	if c.observer != nil {
		c.observer(ctx, strategy, outcome)
	}
}

func isUnavailable(err error) bool {
	return errors.Is(err, process.ErrNotFound) || errors.Is(err, sheet.ErrToolUnavailable)
}

// Build creates the strategies named in order. Unknown names are an error.
func Build(names []string, runner process.Runner, ghostscript string) ([]sheet.Merger, error) {
	mergers := make([]sheet.Merger, 0, len(names))
	for _, name := range names {
		switch name {
		case "pdfcpu":
			mergers = append(mergers, NewPdfcpu())
		case "gs":
			mergers = append(mergers, NewGhostscript(runner, ghostscript))
		default:
			return nil, fmt.Errorf("unknown merge strategy %q", name)
		}
	}
	return mergers, nil
}
