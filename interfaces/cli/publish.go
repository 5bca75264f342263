package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/worksheet-go/application"
)

// publishOptions holds options for the publish command.
type publishOptions struct {
	target string
	id     string
}

// newPublishCmd creates the publish command.
func (a *App) newPublishCmd() *cobra.Command {
	opts := &publishOptions{}

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Publish a generated file to an artifact store",
		Long: `Store a generated problem set or worksheet PDF with its checksum and
metadata.

Targets:
  file://dir                   local directory
  gs://bucket/prefix           Google Cloud Storage
  s3://bucket/prefix           AWS S3 or a compatible store
  azblob://container/prefix    Azure Blob Storage

Examples:
  worksheet publish output/addition/plus-1-all.pdf --to file://published
  worksheet publish problems/add.json --to s3://worksheets/sets --id add-42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := opts.target
			if target == "" {
				target = a.config.Publish.Target
			}

			pub, err := a.publisher()
			if err != nil {
				return err
			}
			ref, err := pub.Publish(cmd.Context(), application.PublishRequest{
				Path:   args[0],
				Target: target,
				ID:     opts.id,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "✓ Published %s\n", ref)
			fmt.Fprintf(a.stdout, "  Location: %s\n", ref.Location)
			fmt.Fprintf(a.stdout, "  Size: %d bytes\n", ref.Size)
			fmt.Fprintf(a.stdout, "  SHA-256: %s\n", ref.Checksum)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.target, "to", "", "Target URI (default: publish.target from configuration)")
	cmd.Flags().StringVar(&opts.id, "id", "", "Artifact ID (default: generated)")

	return cmd
}
