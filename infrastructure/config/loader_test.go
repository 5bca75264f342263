package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	domainconfig "github.com/felixgeelhaar/worksheet-go/domain/config"
	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

func newTestLoader() *Loader {
	return NewLoaderWithOptions(WithEnvironment(map[string]string{}))
}

func TestLoader_LoadString_YAML(t *testing.T) {
	t.Parallel()

	content := `
name: classroom
root: /srv/sheets
logging:
  level: debug
batch:
  name: plus-2
  pages: 4
compiler:
  backend: builtin
  timeout: 30s
merge:
  strategies: [gs]
`
	cfg, err := newTestLoader().LoadString(content, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Name != "classroom" || cfg.Root != "/srv/sheets" {
		t.Errorf("Name/Root = %q/%q", cfg.Name, cfg.Root)
	}
	if cfg.Batch.Pages != 4 || cfg.Batch.Name != "plus-2" {
		t.Errorf("Batch = %+v", cfg.Batch)
	}
	if cfg.Batch.TemplateFunction != sheet.DefaultTemplateFunction {
		t.Errorf("TemplateFunction = %q, want default", cfg.Batch.TemplateFunction)
	}
	if cfg.Compiler.Timeout.Duration().Seconds() != 30 {
		t.Errorf("Compiler.Timeout = %v", cfg.Compiler.Timeout.Duration())
	}
	if len(cfg.Merge.Strategies) != 1 || cfg.Merge.Strategies[0] != "gs" {
		t.Errorf("Merge.Strategies = %v", cfg.Merge.Strategies)
	}
}

func TestLoader_LoadString_JSON(t *testing.T) {
	t.Parallel()

	cfg, err := newTestLoader().LoadString(`{"render":{"columns":3,"page_size":"Letter"}}`, FormatJSON)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Render.Columns != 3 || cfg.Render.PageSize != "Letter" {
		t.Errorf("Render = %+v", cfg.Render)
	}
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		format  Format
		wantErr error
	}{
		{"bad yaml", "batch: [unclosed", FormatYAML, domainconfig.ErrInvalidFormat},
		{"bad json", "{", FormatJSON, domainconfig.ErrInvalidFormat},
		{"unknown format", "x: 1", Format("toml"), domainconfig.ErrUnsupportedFormat},
		{"invalid values", "compiler:\n  backend: latex\n", FormatYAML, domainconfig.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestLoader().LoadString(tt.content, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadString() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoader_LoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := newTestLoader().LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, domainconfig.ErrConfigNotFound) {
		t.Errorf("LoadFile(missing) error = %v, want ErrConfigNotFound", err)
	}
	if _, err := newTestLoader().LoadFile(dir); !errors.Is(err, domainconfig.ErrInvalidFormat) {
		t.Errorf("LoadFile(dir) error = %v, want ErrInvalidFormat", err)
	}

	txt := filepath.Join(dir, "worksheet.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := newTestLoader().LoadFile(txt); !errors.Is(err, domainconfig.ErrUnsupportedFormat) {
		t.Errorf("LoadFile(txt) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoader_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("built-in defaults", func(t *testing.T) {
		t.Parallel()

		cfg, used, err := newTestLoader().Resolve("", t.TempDir())
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if used != "" {
			t.Errorf("Resolve() used = %q, want empty", used)
		}
		if cfg.Batch != sheet.DefaultPlusOneBatch() {
			t.Errorf("Batch = %+v, want plus-one defaults", cfg.Batch)
		}
	})

	t.Run("default file in dir", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "worksheet.yml")
		if err := os.WriteFile(path, []byte("batch:\n  pages: 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, used, err := newTestLoader().Resolve("", dir)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if used != path {
			t.Errorf("Resolve() used = %q, want %q", used, path)
		}
		if cfg.Batch.Pages != 2 {
			t.Errorf("Batch.Pages = %d, want 2", cfg.Batch.Pages)
		}
	})

	t.Run("env override wins over file", func(t *testing.T) {
		t.Parallel()

		loader := NewLoaderWithOptions(WithEnvironment(map[string]string{"WORKSHEET_LOG_LEVEL": "error"}))
		cfg, err := loader.LoadString("logging:\n  level: debug\n", FormatYAML)
		if err != nil {
			t.Fatalf("LoadString() error = %v", err)
		}
		if cfg.Logging.Level != "error" {
			t.Errorf("Logging.Level = %q, want error", cfg.Logging.Level)
		}
	})
}

func TestLoader_EnvExpansion(t *testing.T) {
	t.Parallel()

	content := "root: ${SHEET_ROOT:-/tmp/sheets}\nbatch:\n  name: ${BATCH}\n"
	env := map[string]string{"BATCH": "plus-5"}

	cfg, err := NewLoaderWithOptions(WithEnvironment(env)).LoadString(content, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Root != "/tmp/sheets" || cfg.Batch.Name != "plus-5" {
		t.Errorf("Root/Batch.Name = %q/%q", cfg.Root, cfg.Batch.Name)
	}

	raw, err := NewLoaderWithOptions(WithEnvironment(env), WithEnvExpansion(false), WithValidation(false)).
		LoadString(content, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() without expansion error = %v", err)
	}
	if raw.Batch.Name != "${BATCH}" {
		t.Errorf("Batch.Name = %q, want the literal reference", raw.Batch.Name)
	}
}
