package cli

import (
	"encoding/json"
	"os"

	"updater/internal/logging"
	"updater/internal/ui"
	"updater/pkg/versioncheck"

	"github.com/spf13/cobra"
)

var (
	versionsDev    bool
	versionsJSON   bool
	versionsLimit  int
	latestDev      bool
	latestSemantic bool
)

var versionsCmd = &cobra.Command{
	Use:   "versions [package]",
	Short: "List versions the registry offers for a package",
	Long: `List the versions composer reports for a package, in registry order.
Without an argument the configured product package is used.

Examples:
  updater versions                           # Product package, stable only
  updater versions --dev                     # Include development versions
  updater versions magento/module-catalog
  updater versions --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVersions,
}

var latestCmd = &cobra.Command{
	Use:   "latest [package]",
	Short: "Print the newest available version",
	Long: `Print the first non-development version the registry lists for a
package (the product package by default). With --dev, print the first
development version instead.

Examples:
  updater latest
  updater latest --dev
  updater latest --semantic          # Highest stable version by semver order`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLatest,
}

func init() {
	versionsCmd.Flags().BoolVar(&versionsDev, "dev", false, "include development versions")
	versionsCmd.Flags().BoolVar(&versionsJSON, "json", false, "print versions as a JSON array")
	versionsCmd.Flags().IntVarP(&versionsLimit, "limit", "l", 0, "show at most this many versions")

	latestCmd.Flags().BoolVar(&latestDev, "dev", false, "print the latest development version")
	latestCmd.Flags().BoolVar(&latestSemantic, "semantic", false, "pick the highest stable version by semantic ordering")
}

func packageArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runVersions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	checker := newChecker(packageArg(args))

	progress := logging.NewProgress(logging.FromContext(ctx))
	versions, err := checker.AvailableVersions(ctx)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("fetched versions", "package", checker.Package(), "count", len(versions), "elapsed", progress.Elapsed())

	latest, dev := versioncheck.LatestOf(versions)
	shown := filterVersions(versions, versionsDev, versionsLimit)

	if versionsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	}

	ui.HeaderMsg("%s", checker.Package())
	ui.PrintVersions(ui.Out, shown, latest, dev)
	ui.MutedMsg("\nShowing %d of %d versions", len(shown), len(versions))
	return nil
}

// filterVersions drops development versions unless dev is set and caps the
// result at limit entries when limit is positive. Order is preserved.
func filterVersions(versions []string, dev bool, limit int) []string {
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		if !dev && versioncheck.IsDevelopment(v) {
			continue
		}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func runLatest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	checker := newChecker(packageArg(args))

	var version string
	var err error
	switch {
	case latestDev:
		version, err = checker.LatestDevelopmentVersion(ctx)
	case latestSemantic:
		var versions []string
		versions, err = checker.AvailableVersions(ctx)
		version = versioncheck.HighestStable(versions)
	default:
		version, err = checker.LatestProductVersion(ctx)
	}
	if err != nil {
		return err
	}
	if version == "" {
		return ErrNoVersions
	}

	ui.Println("%s", version)
	return nil
}
