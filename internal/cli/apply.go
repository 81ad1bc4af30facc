package cli

import (
	"updater/internal/history"
	"updater/internal/ui"
	"updater/pkg/composer"

	"github.com/spf13/cobra"
)

var (
	applyFrom string
	applyList bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <directive> [vendor/package:constraint...]",
	Short: "Apply a manifest directive by name",
	Long: `Apply a named directive to composer.json. Directive names are
kebab-case (e.g. "require", "require-dev"); the CamelCase handler form
("Require") is accepted too. Unknown names are rejected.

Examples:
  updater apply require vendor/a:1.0
  updater apply require --from packages.json
  updater apply --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if applyList {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyFrom, "from", "f", "", "read parameter records from a YAML or JSON file")
	applyCmd.Flags().BoolVarP(&applyList, "list", "l", false, "list registered directives")
}

func runApply(cmd *cobra.Command, args []string) error {
	if applyList {
		ui.HeaderMsg("Registered directives")
		for _, name := range mgr.Directives() {
			ui.Println("  %s", composer.DirectiveName(name))
		}
		return nil
	}

	params, err := collectParams(applyFrom, args[1:])
	if err != nil {
		return err
	}
	return runDirective(cmd.Context(), history.OpApply, args[0], params)
}
