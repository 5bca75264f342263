package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates worksheet configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *WorksheetConfig) ValidationErrors {
	v.errors = nil

	v.validateLogging(config)
	v.validateBatch(config)
	v.validateCompiler(config)
	v.validateMerge(config)
	v.validateRender(config)
	v.validatePublish(config)
	v.validateResilience(config)
	v.validateTracing(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateLogging(config *WorksheetConfig) {
	if config.Logging.Level != "" {
		valid := map[string]bool{
			"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
		}
		if !valid[strings.ToLower(config.Logging.Level)] {
			v.addError("logging.level", fmt.Sprintf("invalid level: %s", config.Logging.Level))
		}
	}
	if config.Logging.Format != "" {
		valid := map[string]bool{"json": true, "console": true, "auto": true}
		if !valid[config.Logging.Format] {
			v.addError("logging.format", fmt.Sprintf("invalid format: %s", config.Logging.Format))
		}
	}
}

func (v *Validator) validateBatch(config *WorksheetConfig) {
	b := config.Batch
	if b.Pages < 0 {
		v.addError("batch.pages", "pages must be non-negative")
	}
	if b.ProblemsPerPage < 0 {
		v.addError("batch.problems_per_page", "problems_per_page must be non-negative")
	}
	if b.TemplateFunction != "" && strings.ContainsAny(b.TemplateFunction, " \t\n()#") {
		v.addError("batch.template_function", fmt.Sprintf("invalid function name: %s", b.TemplateFunction))
	}
}

func (v *Validator) validateCompiler(config *WorksheetConfig) {
	switch config.Compiler.Backend {
	case "", BackendTypst, BackendBuiltin:
	default:
		v.addError("compiler.backend", fmt.Sprintf("unknown backend: %s", config.Compiler.Backend))
	}
	if config.Compiler.Timeout < 0 {
		v.addError("compiler.timeout", "timeout must be non-negative")
	}
}

func (v *Validator) validateMerge(config *WorksheetConfig) {
	seen := make(map[string]bool)
	for i, s := range config.Merge.Strategies {
		path := fmt.Sprintf("merge.strategies[%d]", i)
		switch s {
		case StrategyPdfcpu, StrategyGhostscript:
		default:
			v.addError(path, fmt.Sprintf("unknown strategy: %s", s))
			continue
		}
		if seen[s] {
			v.addError(path, fmt.Sprintf("duplicate strategy: %s", s))
		}
		seen[s] = true
	}
}

func (v *Validator) validateRender(config *WorksheetConfig) {
	if config.Render.PageSize != "" {
		valid := map[string]bool{"a4": true, "letter": true, "legal": true}
		if !valid[strings.ToLower(config.Render.PageSize)] {
			v.addError("render.page_size", fmt.Sprintf("invalid page size: %s", config.Render.PageSize))
		}
	}
	if config.Render.Columns < 0 || config.Render.Columns > 4 {
		v.addError("render.columns", "columns must be between 1 and 4")
	}
	if config.Render.RowsPerPage < 0 {
		v.addError("render.rows_per_page", "rows_per_page must be non-negative")
	}
}

func (v *Validator) validatePublish(config *WorksheetConfig) {
	target := config.Publish.Target
	if target == "" {
		return
	}
	for _, scheme := range []string{"file://", "gs://", "s3://", "azblob://"} {
		if strings.HasPrefix(target, scheme) {
			return
		}
	}
	v.addError("publish.target", fmt.Sprintf("unsupported target: %s", target))
}

func (v *Validator) validateResilience(config *WorksheetConfig) {
	if config.Resilience.Threshold < 0 {
		v.addError("resilience.threshold", "threshold must be non-negative")
	}
	if config.Resilience.Cooldown < 0 {
		v.addError("resilience.cooldown", "cooldown must be non-negative")
	}
}

func (v *Validator) validateTracing(config *WorksheetConfig) {
	t := config.Tracing
	switch t.Exporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if t.Endpoint == "" {
			v.addError("tracing.endpoint", "endpoint is required for otlp exporter")
		}
	default:
		v.addError("tracing.exporter", fmt.Sprintf("unknown exporter: %s", t.Exporter))
	}
	if r := t.Rate(); r < 0 || r > 1 {
		v.addError("tracing.sample_rate", "sample_rate must be between 0 and 1")
	}
}
