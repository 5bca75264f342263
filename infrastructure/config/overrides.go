package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	domainconfig "github.com/felixgeelhaar/worksheet-go/domain/config"
)

// envOverrides lists the WORKSHEET_* variables that override file values.
type envOverrides struct {
	Root            string   `env:"WORKSHEET_ROOT"`
	LogLevel        string   `env:"WORKSHEET_LOG_LEVEL"`
	LogFormat       string   `env:"WORKSHEET_LOG_FORMAT"`
	CompilerBackend string   `env:"WORKSHEET_COMPILER"`
	Typst           string   `env:"WORKSHEET_TYPST"`
	Ghostscript     string   `env:"WORKSHEET_GS"`
	MergeStrategies []string `env:"WORKSHEET_MERGE_STRATEGIES" envSeparator:","`
	PublishTarget   string   `env:"WORKSHEET_PUBLISH_TARGET"`
	S3Region        string   `env:"WORKSHEET_S3_REGION"`
	S3Endpoint      string   `env:"WORKSHEET_S3_ENDPOINT"`
	GCSCredentials  string   `env:"WORKSHEET_GCS_CREDENTIALS"`
	TraceExporter   string   `env:"WORKSHEET_TRACE_EXPORTER"`
	OTLPEndpoint    string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	AzureAccount    string   `env:"AZURE_STORAGE_ACCOUNT"`
	AzureConnString string   `env:"AZURE_STORAGE_CONNECTION_STRING"`
	S3AccessKeyID   string   `env:"WORKSHEET_S3_ACCESS_KEY_ID"`
	S3SecretKey     string   `env:"WORKSHEET_S3_SECRET_ACCESS_KEY"`
}

// ApplyEnvOverrides copies set WORKSHEET_* variables onto cfg. A nil
// environment reads the process environment.
func ApplyEnvOverrides(cfg *domainconfig.WorksheetConfig, environment map[string]string) error {
	var o envOverrides
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&cfg.Root, o.Root)
	setString(&cfg.Logging.Level, o.LogLevel)
	setString(&cfg.Logging.Format, o.LogFormat)
	setString(&cfg.Compiler.Backend, o.CompilerBackend)
	setString(&cfg.Compiler.Command, o.Typst)
	setString(&cfg.Merge.Ghostscript, o.Ghostscript)
	if len(o.MergeStrategies) > 0 {
		cfg.Merge.Strategies = o.MergeStrategies
	}
	setString(&cfg.Publish.Target, o.PublishTarget)
	setString(&cfg.Publish.Region, o.S3Region)
	setString(&cfg.Publish.Endpoint, o.S3Endpoint)
	setString(&cfg.Publish.CredentialsFile, o.GCSCredentials)
	setString(&cfg.Tracing.Exporter, o.TraceExporter)
	setString(&cfg.Tracing.Endpoint, o.OTLPEndpoint)
	setString(&cfg.Publish.AzureAccount, o.AzureAccount)
	setString(&cfg.Publish.AzureConnectionString, o.AzureConnString)
	setString(&cfg.Publish.AccessKeyID, o.S3AccessKeyID)
	setString(&cfg.Publish.SecretAccessKey, o.S3SecretKey)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
