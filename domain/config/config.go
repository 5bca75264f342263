// Package config provides domain models for worksheet configuration.
package config

import (
	"time"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

// Compiler backends.
const (
	BackendTypst   = "typst"
	BackendBuiltin = "builtin"
)

// Merge strategies.
const (
	StrategyPdfcpu      = "pdfcpu"
	StrategyGhostscript = "gs"
)

// WorksheetConfig represents the complete tool configuration.
type WorksheetConfig struct {
	// Name is a human-readable name for this configuration.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Version is the configuration schema version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Root is the project root that relative batch paths resolve against.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// Logging contains logger settings.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Batch describes the page batch built by the build command.
	Batch sheet.Batch `json:"batch,omitempty" yaml:"batch,omitempty"`
	// Compiler selects and configures the page compiler.
	Compiler CompilerConfig `json:"compiler,omitempty" yaml:"compiler,omitempty"`
	// Merge configures the merge strategy chain.
	Merge MergeConfig `json:"merge,omitempty" yaml:"merge,omitempty"`
	// Render configures the native PDF renderer.
	Render RenderConfig `json:"render,omitempty" yaml:"render,omitempty"`
	// Publish configures artifact publishing.
	Publish PublishConfig `json:"publish,omitempty" yaml:"publish,omitempty"`
	// Resilience configures the external tool guard.
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
	// Watch configures watch mode.
	Watch WatchConfig `json:"watch,omitempty" yaml:"watch,omitempty"`
	// Tracing configures span export.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is json, console or auto.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// CompilerConfig selects the page compiler.
type CompilerConfig struct {
	// Backend is typst or builtin.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// Command is the typst executable.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	// Args are extra arguments passed before the source file.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
	// Timeout bounds a single page compile; zero means no limit.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// MergeConfig configures the merge strategy chain.
type MergeConfig struct {
	// Strategies are tried in order.
	Strategies []string `json:"strategies,omitempty" yaml:"strategies,omitempty"`
	// Ghostscript is the gs executable.
	Ghostscript string `json:"ghostscript,omitempty" yaml:"ghostscript,omitempty"`
}

// RenderConfig configures the native PDF renderer.
type RenderConfig struct {
	// PageSize is A4, Letter or Legal.
	PageSize string `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	// Columns is the number of problem columns per page.
	Columns int `json:"columns,omitempty" yaml:"columns,omitempty"`
	// RowsPerPage bounds the problem rows per page.
	RowsPerPage int `json:"rows_per_page,omitempty" yaml:"rows_per_page,omitempty"`
	// FontFamily is a core PDF font family.
	FontFamily string `json:"font_family,omitempty" yaml:"font_family,omitempty"`
	// AnswerKey appends an answer page.
	AnswerKey *bool `json:"answer_key,omitempty" yaml:"answer_key,omitempty"`
	// Language tags titles for casing and number formatting.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// WithAnswerKey reports whether an answer key page is rendered.
func (c RenderConfig) WithAnswerKey() bool {
	return c.AnswerKey == nil || *c.AnswerKey
}

// PublishConfig configures artifact publishing.
type PublishConfig struct {
	// Target is the default destination URI (file://, gs://, s3://, azblob://).
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	// Region is the S3 region.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
	// Endpoint overrides the S3 endpoint for compatible stores.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// CredentialsFile is a GCS service account file.
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`
	// AzureAccount is the storage account used with the default Azure
	// credential chain when no connection string is set.
	AzureAccount string `json:"azure_account,omitempty" yaml:"azure_account,omitempty"`

	// Secrets come from the environment only.
	AzureConnectionString string `json:"-" yaml:"-"`
	AccessKeyID           string `json:"-" yaml:"-"`
	SecretAccessKey       string `json:"-" yaml:"-"`
}

// ResilienceConfig configures the circuit breaker around external tools.
type ResilienceConfig struct {
	// Threshold is consecutive failures before a tool is skipped.
	Threshold int `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	// Cooldown is how long a tripped tool stays skipped.
	Cooldown Duration `json:"cooldown,omitempty" yaml:"cooldown,omitempty"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Paths are watched for changes; relative paths resolve against Root.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`
	// Debounce collapses bursts of events into one rebuild.
	Debounce Duration `json:"debounce,omitempty" yaml:"debounce,omitempty"`
}

// Trace exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// TracingConfig configures span export.
type TracingConfig struct {
	// Exporter is none, stdout or otlp.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP gRPC endpoint (host:port).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// Insecure disables TLS to the endpoint.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	// SampleRate is between 0 and 1.
	SampleRate *float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
}

// Rate returns the sample rate, defaulting to 1.
func (c TracingConfig) Rate() float64 {
	if c.SampleRate == nil {
		return 1
	}
	return *c.SampleRate
}

// Default returns the configuration that reproduces the plus-one batch.
func Default() WorksheetConfig {
	return WorksheetConfig{
		Name:    "worksheet",
		Version: "1",
		Root:    ".",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
		Batch: sheet.DefaultPlusOneBatch(),
		Compiler: CompilerConfig{
			Backend: BackendTypst,
			Command: "typst",
		},
		Merge: MergeConfig{
			Strategies:  []string{StrategyPdfcpu, StrategyGhostscript},
			Ghostscript: "gs",
		},
		Render: RenderConfig{
			PageSize:    "A4",
			Columns:     2,
			RowsPerPage: 20,
			FontFamily:  "Helvetica",
			Language:    "en",
		},
		Resilience: ResilienceConfig{
			Threshold: 1,
			Cooldown:  Duration(30 * time.Second),
		},
		Watch: WatchConfig{
			Paths:    []string{"generators"},
			Debounce: Duration(500 * time.Millisecond),
		},
		Tracing: TracingConfig{
			Exporter: ExporterNone,
		},
	}
}

// ApplyDefaults fills zero fields from Default.
func (c *WorksheetConfig) ApplyDefaults() {
	d := Default()

	if c.Root == "" {
		c.Root = d.Root
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}

	if c.Batch.Name == "" {
		c.Batch.Name = d.Batch.Name
	}
	if c.Batch.Pages == 0 {
		c.Batch.Pages = d.Batch.Pages
	}
	if c.Batch.ProblemsPerPage == 0 {
		c.Batch.ProblemsPerPage = d.Batch.ProblemsPerPage
	}
	if c.Batch.TemplateImport == "" {
		c.Batch.TemplateImport = d.Batch.TemplateImport
	}
	if c.Batch.TemplateFunction == "" {
		c.Batch.TemplateFunction = d.Batch.TemplateFunction
	}
	if c.Batch.SheetsDir == "" {
		c.Batch.SheetsDir = d.Batch.SheetsDir
	}
	if c.Batch.Output == "" {
		c.Batch.Output = d.Batch.Output
	}

	if c.Compiler.Backend == "" {
		c.Compiler.Backend = d.Compiler.Backend
	}
	if c.Compiler.Command == "" {
		c.Compiler.Command = d.Compiler.Command
	}
	if len(c.Merge.Strategies) == 0 {
		c.Merge.Strategies = d.Merge.Strategies
	}
	if c.Merge.Ghostscript == "" {
		c.Merge.Ghostscript = d.Merge.Ghostscript
	}

	if c.Render.PageSize == "" {
		c.Render.PageSize = d.Render.PageSize
	}
	if c.Render.Columns == 0 {
		c.Render.Columns = d.Render.Columns
	}
	if c.Render.RowsPerPage == 0 {
		c.Render.RowsPerPage = d.Render.RowsPerPage
	}
	if c.Render.FontFamily == "" {
		c.Render.FontFamily = d.Render.FontFamily
	}
	if c.Render.Language == "" {
		c.Render.Language = d.Render.Language
	}

	if c.Resilience.Threshold == 0 {
		c.Resilience.Threshold = d.Resilience.Threshold
	}
	if c.Resilience.Cooldown == 0 {
		c.Resilience.Cooldown = d.Resilience.Cooldown
	}
	if len(c.Watch.Paths) == 0 {
		c.Watch.Paths = d.Watch.Paths
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = d.Watch.Debounce
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = d.Tracing.Exporter
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
