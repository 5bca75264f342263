package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/worksheet-go/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	strict bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate a worksheet configuration file for correctness.

This command checks:
  - File format (YAML or JSON)
  - Batch paths and page count
  - Compiler backend and merge strategies
  - Publish target scheme and tracing exporter
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  worksheet validate -c worksheet.yaml

  # Strict validation (fail on missing env vars)
  worksheet validate -c worksheet.yaml --strict`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")

	return cmd
}

// validateConfig validates the configuration file.
func (a *App) validateConfig(opts *validateOptions) error {
	if a.opts.configPath == "" {
		return errors.New("configuration file path is required (-c flag)")
	}

	loader := infraconfig.NewLoaderWithOptions(
		infraconfig.WithValidation(true),
		infraconfig.WithStrictEnv(opts.strict),
		infraconfig.WithEnvironment(a.environment),
	)
	config, err := loader.LoadFile(a.opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	if config.Name != "" {
		fmt.Fprintf(a.stdout, "  Name: %s\n", config.Name)
	}
	if config.Version != "" {
		fmt.Fprintf(a.stdout, "  Version: %s\n", config.Version)
	}

	b := config.Batch
	fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	fmt.Fprintf(a.stdout, "  Root: %s\n", config.Root)
	fmt.Fprintf(a.stdout, "  Batch: %s (%d pages, %d problems per page)\n", b.Name, b.Pages, b.ProblemsPerPage)
	fmt.Fprintf(a.stdout, "    Template: %s: %s\n", b.TemplateImport, b.TemplateFunction)
	fmt.Fprintf(a.stdout, "    Sheets: %s\n", b.SheetsDir)
	fmt.Fprintf(a.stdout, "    Output: %s\n", b.Output)
	fmt.Fprintf(a.stdout, "  Compiler: %s", config.Compiler.Backend)
	if config.Compiler.Backend == "typst" {
		fmt.Fprintf(a.stdout, " (%s)", config.Compiler.Command)
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "  Merge strategies: %s\n", strings.Join(config.Merge.Strategies, ", "))

	if config.Publish.Target != "" {
		fmt.Fprintf(a.stdout, "  Publish target: %s\n", config.Publish.Target)
	}
	if config.Tracing.Exporter != "none" {
		fmt.Fprintf(a.stdout, "  Tracing: %s (sample rate %.2f)\n", config.Tracing.Exporter, config.Tracing.Rate())
	}

	return nil
}
