package cli

import (
	"updater/internal/history"
	"updater/internal/logging"
	"updater/internal/ui"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run composer update",
	Long: `Run composer update against the configured manifest, resolving and
installing the pinned requirements.

Examples:
  updater update
  updater update -d /var/www/shop -y
  updater update -n                # Print the command instead of running it`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ui.InfoMsg("Updating dependencies of %s", mgr.ManifestPath())
	if err := confirm("Run composer update?"); err != nil {
		return err
	}

	entry := newEntry(history.OpUpdate, "update", nil)
	progress := logging.NewProgress(logging.FromContext(ctx))

	err := ui.WithSpinner("Running composer update", quiet(), func() error {
		_, err := mgr.RunUpdate(ctx)
		return err
	})
	finishEntry(ctx, entry, err)
	if err != nil {
		reportCommandOutput(err)
		return err
	}

	progress.Done("Dependencies updated")
	return nil
}
