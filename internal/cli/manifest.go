package cli

import (
	"updater/internal/ui"
	"updater/pkg/composer"

	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Show the require and replace sections of composer.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := composer.ReadManifest(mgr.ManifestPath())
		if err != nil {
			return err
		}
		ui.HeaderMsg("%s", mgr.ManifestPath())
		ui.PrintManifest(ui.Out, m)
		return nil
	},
}
