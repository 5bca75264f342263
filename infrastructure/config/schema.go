package config

import (
	"encoding/json"

	domainconfig "github.com/felixgeelhaar/worksheet-go/domain/config"
	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

// JSONSchema represents a JSON Schema document.
type JSONSchema struct {
	Schema      string                 `json:"$schema,omitempty"`
	ID          string                 `json:"$id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Maximum     *float64               `json:"maximum,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
}

const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// GenerateSchema generates a JSON Schema for the WorksheetConfig.
func GenerateSchema() *JSONSchema {
	d := domainconfig.Default()
	return &JSONSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		ID:          "https://github.com/felixgeelhaar/worksheet-go/worksheet.schema.json",
		Title:       "Worksheet Configuration",
		Description: "Configuration schema for the worksheet tool",
		Type:        "object",
		Properties: map[string]*JSONSchema{
			"name":    {Type: "string", Description: "A human-readable name for this configuration"},
			"version": {Type: "string", Description: "The configuration schema version", Default: d.Version},
			"root":    {Type: "string", Description: "Project root for relative batch paths", Default: d.Root},
			"logging": {
				Type:        "object",
				Description: "Logger settings",
				Properties: map[string]*JSONSchema{
					"level":  {Type: "string", Enum: []string{"trace", "debug", "info", "warn", "error"}, Default: d.Logging.Level},
					"format": {Type: "string", Enum: []string{"json", "console", "auto"}, Default: d.Logging.Format},
				},
			},
			"batch":      generateBatchSchema(d.Batch),
			"compiler":   generateCompilerSchema(d.Compiler),
			"merge":      generateMergeSchema(d.Merge),
			"render":     generateRenderSchema(d.Render),
			"publish":    generatePublishSchema(),
			"resilience": generateResilienceSchema(d.Resilience),
			"watch": {
				Type:        "object",
				Description: "Watch mode settings",
				Properties: map[string]*JSONSchema{
					"paths":    {Type: "array", Items: &JSONSchema{Type: "string"}, Description: "Directories to watch"},
					"debounce": {Type: "string", Pattern: durationPattern, Default: d.Watch.Debounce.Duration().String()},
				},
			},
			"tracing": {
				Type:        "object",
				Description: "Span export settings",
				Properties: map[string]*JSONSchema{
					"exporter":    {Type: "string", Enum: []string{"none", "stdout", "otlp"}, Default: d.Tracing.Exporter},
					"endpoint":    {Type: "string", Description: "OTLP gRPC endpoint (host:port)"},
					"insecure":    {Type: "boolean", Description: "Disable TLS to the OTLP endpoint"},
					"sample_rate": {Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(1), Default: 1.0},
				},
			},
		},
	}
}

func generateBatchSchema(b sheet.Batch) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Page batch compiled and merged by the build command",
		Properties: map[string]*JSONSchema{
			"name":              {Type: "string", Default: b.Name},
			"pages":             {Type: "integer", Minimum: floatPtr(1), Default: b.Pages},
			"problems_per_page": {Type: "integer", Minimum: floatPtr(1), Default: b.ProblemsPerPage},
			"template_import":   {Type: "string", Description: "Template module imported by each page", Default: b.TemplateImport},
			"template_function": {Type: "string", Description: "Template function called with the page number", Default: b.TemplateFunction},
			"sheets_dir":        {Type: "string", Default: b.SheetsDir},
			"output":            {Type: "string", Default: b.Output},
		},
	}
}

func generateCompilerSchema(c domainconfig.CompilerConfig) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Page compiler",
		Properties: map[string]*JSONSchema{
			"backend": {Type: "string", Enum: []string{domainconfig.BackendTypst, domainconfig.BackendBuiltin}, Default: c.Backend},
			"command": {Type: "string", Description: "typst executable", Default: c.Command},
			"args":    {Type: "array", Items: &JSONSchema{Type: "string"}},
			"timeout": {Type: "string", Pattern: durationPattern},
		},
	}
}

func generateMergeSchema(m domainconfig.MergeConfig) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Merge strategy chain",
		Properties: map[string]*JSONSchema{
			"strategies": {
				Type:    "array",
				Items:   &JSONSchema{Type: "string", Enum: []string{domainconfig.StrategyPdfcpu, domainconfig.StrategyGhostscript}},
				Default: m.Strategies,
			},
			"ghostscript": {Type: "string", Default: m.Ghostscript},
		},
	}
}

func generateRenderSchema(r domainconfig.RenderConfig) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Native PDF renderer",
		Properties: map[string]*JSONSchema{
			"page_size":     {Type: "string", Enum: []string{"A4", "Letter", "Legal"}, Default: r.PageSize},
			"columns":       {Type: "integer", Minimum: floatPtr(1), Maximum: floatPtr(4), Default: r.Columns},
			"rows_per_page": {Type: "integer", Minimum: floatPtr(1), Default: r.RowsPerPage},
			"font_family":   {Type: "string", Default: r.FontFamily},
			"answer_key":    {Type: "boolean", Default: true},
			"language":      {Type: "string", Description: "BCP 47 tag", Default: r.Language},
		},
	}
}

func generatePublishSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Artifact publishing",
		Properties: map[string]*JSONSchema{
			"target":           {Type: "string", Pattern: `^(file|gs|s3|azblob)://`},
			"region":           {Type: "string"},
			"endpoint":         {Type: "string"},
			"credentials_file": {Type: "string"},
		},
	}
}

func generateResilienceSchema(r domainconfig.ResilienceConfig) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "External tool circuit breaker",
		Properties: map[string]*JSONSchema{
			"threshold": {Type: "integer", Minimum: floatPtr(1), Default: r.Threshold},
			"cooldown":  {Type: "string", Pattern: durationPattern, Default: r.Cooldown.Duration().String()},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

// SchemaJSON returns the JSON Schema as a JSON string.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
