// Package cli provides the worksheet command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	worksheet "github.com/felixgeelhaar/worksheet-go"
	domainconfig "github.com/felixgeelhaar/worksheet-go/domain/config"
	infraconfig "github.com/felixgeelhaar/worksheet-go/infrastructure/config"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/process"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/telemetry"
)

// Version information set at build time.
var (
	Version   = worksheet.GetVersion()
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

// globalOptions holds flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	opts        globalOptions
	config      *domainconfig.WorksheetConfig
	configFile  string
	environment map[string]string
	runner      process.Runner
	guarded     process.Runner
	tracing     *telemetry.Tracing
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "worksheet",
		Short: "Arithmetic worksheet generator",
		Long: `worksheet builds printable arithmetic drill sheets.

It generates seeded problem sets as JSON, renders them to PDF, and builds
the plus-one sheet batch by compiling typst pages and merging them into a
single document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			return app.setup(cmd.Context())
		},
	}

	flags := app.root.PersistentFlags()
	flags.StringVarP(&app.opts.configPath, "config", "c", "", "Path to configuration file (default: worksheet.yaml if present)")
	flags.StringVar(&app.opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.StringVar(&app.opts.logFormat, "log-format", "", "Log format: json, console, auto")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newGenerateCmd(),
		app.newBuildCmd(),
		app.newRenderCmd(),
		app.newInspectCmd(),
		app.newPublishCmd(),
		app.newWatchCmd(),
		app.newValidateCmd(),
		app.newExportSchemaCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithRunner replaces the external command runner. Commands still run
// behind the tool breakers.
func (a *App) WithRunner(runner process.Runner) *App {
	a.runner = runner
	return a
}

// WithEnvironment replaces the process environment used for
// configuration expansion and overrides.
func (a *App) WithEnvironment(env map[string]string) *App {
	a.environment = env
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := a.root.ExecuteContext(ctx)
	if serr := a.tracing.Shutdown(context.WithoutCancel(ctx)); serr != nil {
		err = errors.Join(err, fmt.Errorf("shutdown tracing: %w", serr))
	}
	return err
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// setup loads configuration, then initializes logging and tracing.
func (a *App) setup(ctx context.Context) error {
	loader := infraconfig.NewLoader()
	loader.Environment = a.environment

	cfg, file, err := loader.Resolve(a.opts.configPath, ".")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.config = cfg
	a.configFile = file

	level := cfg.Logging.Level
	if a.opts.logLevel != "" {
		level = a.opts.logLevel
	}
	format := cfg.Logging.Format
	if a.opts.logFormat != "" {
		format = a.opts.logFormat
	}
	logging.Init(logging.Config{Level: level, Format: format, Output: a.stderr})

	tracing, err := telemetry.SetupTracing(ctx, telemetry.TracingOptions{
		ServiceName:    "worksheet",
		ServiceVersion: Version,
		Config:         cfg.Tracing,
		Writer:         a.stderr,
	})
	if err != nil {
		return err
	}
	a.tracing = tracing

	if file != "" {
		logging.Debug().Add(logging.Path(file)).Msg("configuration loaded")
	}
	return nil
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "worksheet version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
