package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/felixgeelhaar/worksheet-go/application"
	"github.com/felixgeelhaar/worksheet-go/domain/artifact"
	domainconfig "github.com/felixgeelhaar/worksheet-go/domain/config"
	"github.com/felixgeelhaar/worksheet-go/domain/problem"
	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/compiler"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/merge"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/process"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/render"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/resilience"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/filesystem"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/telemetry"
)

// processRunner returns the guarded runner, creating it on first use so
// the breakers persist across watch rebuilds. Only a missing or crashing
// tool trips its breaker.
func (a *App) processRunner() process.Runner {
	if a.guarded == nil {
		base := a.runner
		if base == nil {
			base = process.NewExecRunner()
		}
		guard := resilience.NewGuard(resilience.GuardConfig{
			Threshold: a.config.Resilience.Threshold,
			Cooldown:  a.config.Resilience.Cooldown.Duration(),
			Trips:     process.TripsBreaker,
		})
		a.guarded = process.NewGuardedRunner(base, guard)
	}
	return a.guarded
}

func (a *App) metrics() telemetry.Metrics {
	mp := telemetry.NewMetricsProvider(telemetry.DefaultMetricsConfig())
	if err := mp.Error(); err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("metrics disabled")
		return telemetry.NoopMetrics{}
	}
	return mp
}

func (a *App) renderer() *render.Renderer {
	cfg := a.config.Render
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		logging.Warn().Add(logging.Str("language", cfg.Language)).Msg("unknown render language, using English")
		tag = language.English
	}
	return render.New(render.Options{
		PageSize:    cfg.PageSize,
		Columns:     cfg.Columns,
		RowsPerPage: cfg.RowsPerPage,
		FontFamily:  cfg.FontFamily,
		AnswerKey:   cfg.WithAnswerKey(),
		Language:    tag,
	})
}

func (a *App) problemService() (*application.ProblemSetService, error) {
	return application.NewProblemSetService(problem.NewGenerator(), filesystem.NewProblemStore(), a.metrics())
}

// projectRoot resolves the configured root against the configuration
// file's directory.
func (a *App) projectRoot() (string, error) {
	root := a.config.Root
	if !filepath.IsAbs(root) && a.configFile != "" {
		root = filepath.Join(filepath.Dir(a.configFile), root)
	}
	return filepath.Abs(root)
}

// batch returns the configured batch with paths resolved against root.
func (a *App) batch(root string) sheet.Batch {
	return a.config.Batch.Resolve(root)
}

func (a *App) pageCompiler(root string) (sheet.Compiler, error) {
	cfg := a.config.Compiler
	switch cfg.Backend {
	case domainconfig.BackendTypst:
		return compiler.NewTypst(a.processRunner(), root,
			compiler.WithCommand(cfg.Command),
			compiler.WithArgs(cfg.Args...),
			compiler.WithTimeout(cfg.Timeout.Duration()),
		), nil
	case domainconfig.BackendBuiltin:
		return compiler.NewBuiltin(a.renderer()), nil
	default:
		return nil, fmt.Errorf("unknown compiler backend %q", cfg.Backend)
	}
}

func (a *App) batchBuilder(root string) (*application.BatchBuilder, error) {
	c, err := a.pageCompiler(root)
	if err != nil {
		return nil, err
	}
	mergers, err := merge.Build(a.config.Merge.Strategies, a.processRunner(), a.config.Merge.Ghostscript)
	if err != nil {
		return nil, err
	}
	return application.NewBatchBuilder(application.BatchBuilderConfig{
		Compiler: c,
		Mergers:  mergers,
		Metrics:  a.metrics(),
	})
}

func (a *App) publisher() (*application.Publisher, error) {
	cfg := a.config.Publish
	open := func(ctx context.Context, target string) (artifact.Store, error) {
		return storage.Open(ctx, target, cfg)
	}
	return application.NewPublisher(open, filesystem.NewProblemStore())
}
