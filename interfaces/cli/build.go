package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/worksheet-go/application"
	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

// newBuildCmd creates the build command.
func (a *App) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the plus-one worksheet batch",
		Long: `Build the configured sheet batch: write one typst descriptor per page,
compile each page, then merge the pages into a single PDF.

Without a configuration file this builds the 10-page plus-one addition batch
(1 + 1 through 100 + 1) into output/addition/plus-1-all.pdf. Pages are merged
with pdfcpu, falling back to Ghostscript.

Examples:
  # Build the default batch
  worksheet build

  # Build without typst installed
  WORKSHEET_COMPILER=builtin worksheet build`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			builder, err := a.batchBuilder(root)
			if err != nil {
				return err
			}
			_, err = a.runBuild(cmd.Context(), builder, a.batch(root))
			return err
		},
	}
}

// runBuild builds the batch, printing one line per page and a completion line.
func (a *App) runBuild(ctx context.Context, builder *application.BatchBuilder, batch sheet.Batch) (*application.BuildResult, error) {
	fmt.Fprintf(a.stdout, "=== %s ===\n", batch.Name)
	fmt.Fprintf(a.stdout, "Problems: %d\n", batch.Pages*batch.ProblemsPerPage)
	fmt.Fprintf(a.stdout, "Pages: %d\n\n", batch.Pages)

	result, err := builder.Build(ctx, batch, func(r sheet.PageResult) {
		name := filepath.Base(r.Path)
		if r.OK() {
			fmt.Fprintf(a.stdout, "✓ %s\n", name)
			return
		}
		fmt.Fprintf(a.stdout, "✗ %s\n", name)
		fmt.Fprintf(a.stdout, "  Error: %s\n", strings.TrimSpace(r.Err.Error()))
	})
	if err != nil {
		return result, fmt.Errorf("build %s: %w", batch.Name, err)
	}

	fmt.Fprintf(a.stdout, "\n✓ Done: %s (%d pages, merged with %s)\n", result.Output, len(result.Pages), result.Strategy)
	return result, nil
}
