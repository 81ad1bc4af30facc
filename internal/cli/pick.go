package cli

import (
	"fmt"

	"updater/internal/history"
	"updater/internal/tui"
	"updater/internal/ui"
	"updater/pkg/composer"

	"github.com/spf13/cobra"
)

var (
	pickDev    bool
	pickSimple bool
	pickOnly   bool
)

var pickCmd = &cobra.Command{
	Use:   "pick [package]",
	Short: "Choose a version interactively and pin it",
	Long: `Browse the versions available for a package (the product package by
default), choose one, and pin it with the require directive.

Keys in the picker: ↑/↓ move, / filter, d toggle development versions,
r refresh from the registry, enter select, q quit.

Examples:
  updater pick
  updater pick --dev magento/module-catalog
  updater pick --simple            # Plain prompt instead of the full-screen picker
  updater pick --print-only        # Print the chosen version without pinning it`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPick,
}

func init() {
	pickCmd.Flags().BoolVar(&pickDev, "dev", false, "show development versions initially")
	pickCmd.Flags().BoolVar(&pickSimple, "simple", false, "use a simple list prompt")
	pickCmd.Flags().BoolVar(&pickOnly, "print-only", false, "print the chosen version and exit")
}

func runPick(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	checker := newChecker(packageArg(args))

	var version string
	var err error
	if pickSimple {
		var versions []string
		versions, err = checker.AvailableVersions(ctx)
		if err != nil {
			return err
		}
		versions = filterVersions(versions, pickDev, 0)
		if len(versions) == 0 {
			return ErrNoVersions
		}
		version, err = ui.SelectVersion(checker.Package(), versions)
	} else {
		version, err = tui.Run(ctx, checker, pickDev)
	}
	if err != nil {
		return err
	}
	if version == "" {
		return ErrAborted
	}

	if pickOnly {
		ui.Println("%s", version)
		return nil
	}

	params := []composer.Params{composer.Package(checker.Package(), version)}
	if err := runDirective(ctx, history.OpRequire, composer.CommandRequire, params); err != nil {
		return fmt.Errorf("failed to pin %s:%s: %w", checker.Package(), version, err)
	}
	return nil
}
