// Package config provides configuration loading and parsing for worksheet.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/worksheet-go/domain/config"
)

// DefaultFileNames are looked up in the working directory when no
// configuration path is given.
var DefaultFileNames = []string{"worksheet.yaml", "worksheet.yml", "worksheet.json"}

// Loader loads worksheet configuration from files.
type Loader struct {
	// ExpandEnv enables ${VAR} expansion in the file content.
	ExpandEnv bool
	// StrictEnv fails if referenced env vars are missing.
	StrictEnv bool
	// Validate enables configuration validation.
	Validate bool
	// Overrides applies WORKSHEET_* environment overrides after parsing.
	Overrides bool
	// Environment replaces the process environment for expansion and
	// overrides when set.
	Environment map[string]string
}

// NewLoader creates a new configuration loader with default settings.
func NewLoader() *Loader {
	return &Loader{
		ExpandEnv: true,
		StrictEnv: false,
		Validate:  true,
		Overrides: true,
	}
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithEnvExpansion enables or disables environment variable expansion.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.ExpandEnv = enabled
	}
}

// WithStrictEnv enables strict environment variable checking.
func WithStrictEnv(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.StrictEnv = enabled
	}
}

// WithValidation enables or disables configuration validation.
func WithValidation(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.Validate = enabled
	}
}

// WithEnvironment sets the environment used for ${VAR} expansion and overrides.
func WithEnvironment(env map[string]string) LoaderOption {
	return func(l *Loader) {
		l.Environment = env
	}
}

// NewLoaderWithOptions creates a loader with the specified options.
func NewLoaderWithOptions(opts ...LoaderOption) *Loader {
	l := NewLoader()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve loads path, or the first default file found in dir, or the
// built-in defaults when neither exists. The returned string is the file
// that was loaded, empty for built-in defaults.
func (l *Loader) Resolve(path, dir string) (*config.WorksheetConfig, string, error) {
	if path != "" {
		cfg, err := l.LoadFile(path)
		return cfg, path, err
	}
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := l.LoadFile(candidate)
			return cfg, candidate, err
		}
	}
	cfg, err := l.finish(&config.WorksheetConfig{})
	return cfg, "", err
}

// LoadFile loads configuration from a file path.
func (l *Loader) LoadFile(path string) (*config.WorksheetConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to access config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", config.ErrInvalidFormat, path)
	}

	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return l.Load(f, format)
}

// Format represents a configuration file format.
type Format string

const (
	// FormatYAML is the YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is the JSON format.
	FormatJSON Format = "json"
)

// FormatForPath determines the format from a file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", config.ErrUnsupportedFormat, ext)
	}
}

// Load loads configuration from a reader.
func (l *Loader) Load(r io.Reader, format Format) (*config.WorksheetConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if l.ExpandEnv {
		expander := &envExpander{strict: l.StrictEnv}
		if l.Environment != nil {
			expander.lookup = func(name string) (string, bool) {
				v, ok := l.Environment[name]
				return v, ok
			}
		}
		expanded, err := expander.Expand(string(data))
		if err != nil {
			return nil, err
		}
		data = []byte(expanded)
	}

	cfg := &config.WorksheetConfig{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidFormat, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedFormat, format)
	}

	return l.finish(cfg)
}

// LoadString loads configuration from a string.
func (l *Loader) LoadString(content string, format Format) (*config.WorksheetConfig, error) {
	return l.Load(strings.NewReader(content), format)
}

// finish applies environment overrides and defaults, then validates.
func (l *Loader) finish(cfg *config.WorksheetConfig) (*config.WorksheetConfig, error) {
	if l.Overrides {
		if err := ApplyEnvOverrides(cfg, l.Environment); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()

	if l.Validate {
		if errs := config.NewValidator().Validate(cfg); errs.HasErrors() {
			return nil, fmt.Errorf("%w: %v", config.ErrValidationFailed, errs)
		}
	}
	return cfg, nil
}
