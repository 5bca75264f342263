package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrViolations is returned when an inspected set breaks an invariant.
var ErrViolations = errors.New("problem set has violations")

// inspectOptions holds options for the inspect command.
type inspectOptions struct {
	outputJSON bool
}

// newInspectCmd creates the inspect command.
func (a *App) newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <problems.json>",
		Short: "Summarize and verify a problem set",
		Long: `Load a problem set, print its summary and check every problem against
its operation: sums and products must be exact, differences non-negative,
and divisions must divide exactly. Exits non-zero on any violation.

Examples:
  worksheet inspect problems/division/2digit-div-1digit.json

  # Output the set as JSON
  worksheet inspect problems/add.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.problemService()
			if err != nil {
				return err
			}
			insp, err := svc.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if opts.outputJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				if err := enc.Encode(insp.Set); err != nil {
					return fmt.Errorf("encode problem set: %w", err)
				}
			} else {
				a.printSetSummary("Problem set: "+args[0], insp.Set)
			}

			if insp.OK() {
				fmt.Fprintf(a.stderr, "✓ All %d problems verified\n", len(insp.Set.Problems))
				return nil
			}
			for _, v := range insp.Violations {
				fmt.Fprintf(a.stderr, "✗ %v\n", v)
			}
			return fmt.Errorf("%w: %d", ErrViolations, len(insp.Violations))
		},
	}

	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "Output the set as JSON")

	return cmd
}
