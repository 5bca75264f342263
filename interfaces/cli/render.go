package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/worksheet-go/application"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/filesystem"
)

// renderOptions holds options for the render command.
type renderOptions struct {
	output    string
	noAnswers bool
}

// newRenderCmd creates the render command.
func (a *App) newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <problems.json>",
		Short: "Render a problem set to a printable PDF",
		Long: `Render a generated problem set into a PDF with numbered problems laid
out in columns, followed by an answer key.

Examples:
  # Write problems/add.pdf next to the set
  worksheet render problems/add.json

  # Choose the output and skip the answer key
  worksheet render problems/add.json -o out/add.pdf --no-answers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := opts.output
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
			}
			if opts.noAnswers {
				off := false
				a.config.Render.AnswerKey = &off
			}

			svc, err := application.NewRenderService(filesystem.NewProblemStore(), a.renderer())
			if err != nil {
				return err
			}
			set, err := svc.Render(cmd.Context(), input, output)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "✓ Rendered %d %s problems: %s\n", len(set.Problems), set.Metadata.Operation, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output PDF path (default: input with .pdf extension)")
	cmd.Flags().BoolVar(&opts.noAnswers, "no-answers", false, "Omit the answer key page")

	return cmd
}
