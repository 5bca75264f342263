package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/watch"
)

// newWatchCmd creates the watch command.
func (a *App) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the batch when templates change",
		Long: `Build the batch once, then rebuild it whenever a file under the watched
paths changes. Bursts of changes are debounced into a single rebuild. A
failing build is reported and watching continues.

Examples:
  worksheet watch
  worksheet watch -c worksheet.yaml`,
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
			batch := a.batch(root)

			paths := make([]string, len(a.config.Watch.Paths))
			for i, p := range a.config.Watch.Paths {
				if !filepath.IsAbs(p) {
					p = filepath.Join(root, p)
				}
				paths[i] = p
			}

			rebuild := func(ctx context.Context, changed []string) error {
				logging.Info().Add(logging.Count(len(changed))).Msg("changes detected, rebuilding")
				_, err := a.runBuild(ctx, builder, batch)
				return err
			}

			if err := rebuild(cmd.Context(), nil); err != nil {
				logging.Error().Add(logging.ErrorField(err)).Msg("initial build failed")
			}

			w := watch.New(paths, a.config.Watch.Debounce.Duration())
			err = w.Run(cmd.Context(), rebuild)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
