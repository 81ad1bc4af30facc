package cli

import (
	"updater/internal/history"
	"updater/pkg/composer"

	"github.com/spf13/cobra"
)

var requireFrom string

var requireCmd = &cobra.Command{
	Use:   "require [vendor/package:constraint...]",
	Short: "Pin package versions in composer.json",
	Long: `Add or change entries in the "require" section without resolving
dependencies (composer require --no-update).

Any "replace" entries for the same packages are removed first, so the pinned
packages are not shadowed. Every record is validated before anything runs.

Records can also be read from a YAML or JSON file with --from:

  - package_name: magento/module-catalog
    package_version: 104.0.7

Examples:
  updater require magento/module-catalog:104.0.7
  updater require vendor/a:^1.2 vendor/b:~2.0
  updater require --from packages.yaml`,
	RunE: runRequire,
}

func init() {
	requireCmd.Flags().StringVarP(&requireFrom, "from", "f", "", "read package records from a YAML or JSON file")
}

func runRequire(cmd *cobra.Command, args []string) error {
	params, err := collectParams(requireFrom, args)
	if err != nil {
		return err
	}
	if len(params) == 0 {
		return ErrNoPackages
	}
	return runDirective(cmd.Context(), history.OpRequire, composer.CommandRequire, params)
}
