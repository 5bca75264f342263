package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/merge"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/statemachine"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/telemetry"
)

// ProgressFunc is called after each page compile attempt.
type ProgressFunc func(result sheet.PageResult)

// BatchBuilder compiles batch pages one at a time and merges them.
type BatchBuilder struct {
	compiler sheet.Compiler
	chain    *merge.Chain
	metrics  telemetry.Metrics
	tempDir  string
	newID    func() string
}

// BatchBuilderConfig contains the builder's collaborators.
type BatchBuilderConfig struct {
	Compiler sheet.Compiler
	Mergers  []sheet.Merger
	Metrics  telemetry.Metrics
	// TempDir is the parent of the per-build work directory; empty uses
	// the system default.
	TempDir string
}

// BuildResult reports the outcome of a batch build.
type BuildResult struct {
	BatchID     string
	Status      sheet.Status
	Pages       []sheet.PageResult
	Output      string
	Strategy    string
	Duration    time.Duration
	Transitions []statemachine.Transition
}

// NewBatchBuilder creates a builder.
func NewBatchBuilder(config BatchBuilderConfig) (*BatchBuilder, error) {
	if config.Compiler == nil {
		return nil, errors.New("compiler is required")
	}
	if len(config.Mergers) == 0 {
		return nil, errors.New("at least one merge strategy is required")
	}

	b := &BatchBuilder{
		compiler: config.Compiler,
		metrics:  config.Metrics,
		tempDir:  config.TempDir,
		newID:    uuid.NewString,
	}
	if b.metrics == nil {
		b.metrics = telemetry.NoopMetrics{}
	}
	b.chain = merge.NewChain(config.Mergers...).WithObserver(b.metrics.RecordMergeAttempt)
	return b, nil
}

// Build writes every page descriptor, compiles the pages into a temporary
// directory and merges them into batch.Output. The first failing page
// aborts the build before any merge. The temporary directory is removed
// when Build returns. The result is returned even when err is non-nil.
func (b *BatchBuilder) Build(ctx context.Context, batch sheet.Batch, progress ProgressFunc) (result *BuildResult, err error) {
	start := time.Now()
	batchID := b.newID()
	result = &BuildResult{BatchID: batchID, Status: sheet.StatusPending, Output: batch.Output}

	ctx, span := telemetry.StartSpan(ctx, "batch.build",
		attribute.String("batch.id", batchID),
		attribute.String("batch.name", batch.Name),
		attribute.Int("batch.pages", batch.Pages),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := batch.Validate(); err != nil {
		result.Status = sheet.StatusFailed
		return result, err
	}

	machine, err := statemachine.NewBatchMachine()
	if err != nil {
		return result, fmt.Errorf("create batch machine: %w", err)
	}
	interp := statemachine.NewInterpreter(machine, statemachine.NewContext(batchID, batch.Pages))
	interp.Start()
	defer interp.Stop()

	defer func() {
		result.Status = interp.Status()
		result.Transitions = interp.Context().Transitions
		result.Duration = time.Since(start)
		b.metrics.RecordBatch(ctx, string(result.Status), result.Duration)
	}()

	logging.Info().
		Add(logging.BatchID(batchID)).
		Add(logging.Batch(batch.Name)).
		Add(logging.Count(batch.Pages)).
		Add(logging.Tool(b.compiler.Name())).
		Msg("batch build started")

	fail := func(cause error) error {
		if ferr := interp.Fail(cause.Error()); ferr != nil {
			logging.Warn().Add(logging.BatchID(batchID)).Add(logging.ErrorField(ferr)).Msg("record batch failure")
		}
		logging.Error().
			Add(logging.BatchID(batchID)).
			Add(logging.ErrorField(cause)).
			Add(logging.Duration(time.Since(start))).
			Msg("batch build failed")
		return cause
	}

	workDir, err := os.MkdirTemp(b.tempDir, "worksheet-"+batch.Name+"-")
	if err != nil {
		return result, fail(fmt.Errorf("create work directory: %w", err))
	}
	defer func() {
		if rerr := os.RemoveAll(workDir); rerr != nil {
			logging.Warn().Add(logging.Path(workDir)).Add(logging.ErrorField(rerr)).Msg("remove work directory")
		}
	}()

	if err := os.MkdirAll(batch.SheetsDir, 0o750); err != nil {
		return result, fail(fmt.Errorf("create sheets directory: %w", err))
	}

	if err := interp.BeginCompile(); err != nil {
		return result, fail(err)
	}

	pages := batch.PageList(workDir)
	inputs := make([]string, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return result, fail(err)
		}

		pageResult := b.compilePage(ctx, batchID, page)
		result.Pages = append(result.Pages, pageResult)
		if progress != nil {
			progress(pageResult)
		}
		if pageResult.Err != nil {
			return result, fail(pageResult.Err)
		}

		interp.PageCompiled()
		inputs = append(inputs, page.Output)
	}

	if err := interp.BeginMerge(); err != nil {
		return result, fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(batch.Output), 0o750); err != nil {
		return result, fail(fmt.Errorf("create output directory: %w", err))
	}

	strategy, err := b.chain.Merge(ctx, inputs, batch.Output)
	if err != nil {
		return result, fail(err)
	}
	result.Strategy = strategy

	if err := interp.Finish(); err != nil {
		return result, fail(err)
	}

	logging.Info().
		Add(logging.BatchID(batchID)).
		Add(logging.Strategy(strategy)).
		Add(logging.Path(batch.Output)).
		Add(logging.Duration(time.Since(start))).
		Msg("batch build completed")

	return result, nil
}

func (b *BatchBuilder) compilePage(ctx context.Context, batchID string, page sheet.Page) sheet.PageResult {
	result := sheet.PageResult{Page: page.Number, Path: page.Output}

	if err := os.WriteFile(page.Descriptor, []byte(page.Source()), 0o600); err != nil {
		result.Err = fmt.Errorf("write descriptor %s: %w", page.Descriptor, err)
		return result
	}

	started := time.Now()
	err := b.compiler.Compile(ctx, page)
	b.metrics.RecordPageCompiled(ctx, b.compiler.Name(), err == nil, time.Since(started))
	if err != nil {
		result.Err = err
		return result
	}

	logging.Debug().
		Add(logging.BatchID(batchID)).
		Add(logging.Page(page.Number)).
		Add(logging.Path(page.Output)).
		Msg("page compiled")
	return result
}
