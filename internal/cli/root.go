// Package cli implements the updater command-line interface.
//
// Commands load the TOML configuration, build a composer.Manager bound to the
// configured manifest directory and journal every manifest-changing run.
// Loggers travel through the command context; --verbose enables debug output
// and streams composer's own output to the terminal.
package cli

import (
	"context"
	"os"
	"os/signal"

	"updater/internal/config"
	"updater/internal/executor"
	"updater/internal/logging"
	"updater/internal/ui"
	"updater/pkg/composer"
	"updater/pkg/versioncheck"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile     string
	manifestDir string
	dryRun      bool
	yes         bool
	verbose     bool
	noColor     bool

	// Global state
	cfg    *config.Config
	mgr    *composer.Manager
	lister composer.VersionLister
	logger *log.Logger
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "updater",
	Short: "Pin package versions in a composer.json and drive composer",
	Long: `Updater edits a project's composer.json and runs composer against it.

It pins package versions without resolving dependencies, removes "replace"
overrides that would otherwise shadow the pinned packages, runs composer
update, and reports which product versions the registry offers.

Every manifest-changing run is journaled with a copy of the manifest taken
beforehand, so a change can be inspected and restored by hand.

Examples:
  updater require magento/module-catalog:104.0.7   # Pin a package
  updater update                                   # Run composer update
  updater latest                                   # Newest product version
  updater pick                                     # Choose a version interactively
  updater history                                  # Show journaled runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeApp(); err != nil {
			return err
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&manifestDir, "dir", "d", "", "directory containing composer.json")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would happen without executing")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(requireCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command. An interrupt cancels the running composer process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.ErrorMsg("%v", err)
	}
	return err
}

// initializeApp loads configuration and builds the composer manager.
func initializeApp() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	applyFlags(cfg)
	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)

	logger = logging.New(os.Stderr, logging.Level(cfg.Output.Verbose))
	mgr, lister = newManager(cfg, logger)
	return nil
}

// applyFlags overlays the global flags on the loaded configuration.
func applyFlags(c *config.Config) {
	if manifestDir != "" {
		c.General.ManifestDir = manifestDir
	}
	if yes {
		c.General.AutoConfirm = true
	}
	if dryRun {
		c.General.DryRun = true
	}
	if verbose {
		c.Output.Verbose = true
	}
	if noColor {
		c.Output.Color = false
	}
}

// newManager builds the manager and the version lister selected by
// composer.version_format.
func newManager(c *config.Config, l *log.Logger) (*composer.Manager, composer.VersionLister) {
	exec := executor.New(c.General.DryRun, c.Output.Verbose)
	if c.Output.Verbose {
		exec.SetStream(os.Stderr)
	}

	runner := composer.NewCLIRunner(exec, c.General.ManifestDir,
		composer.WithBinary(c.Composer.Binary),
		composer.WithScript(c.Composer.Script),
		composer.WithHome(c.ComposerHome()),
		composer.WithRunnerLogger(l),
	)
	m := composer.NewManager(c.General.ManifestDir,
		composer.WithRunner(runner),
		composer.WithLogger(l),
	)

	if c.Composer.VersionFormat == config.VersionFormatJSON {
		return m, composer.JSONLister{Manager: m}
	}
	return m, m
}

// newChecker returns a version checker for pkg, or the configured product package.
func newChecker(pkg string) *versioncheck.Checker {
	if pkg == "" {
		pkg = cfg.General.ProductPackage
	}
	return versioncheck.New(
		versioncheck.WithLister(lister),
		versioncheck.WithManifestDir(cfg.General.ManifestDir),
		versioncheck.WithPackage(pkg),
	)
}

// confirm asks before a manifest-changing step unless prompts are disabled.
func confirm(prompt string) error {
	if cfg.General.AutoConfirm || cfg.General.DryRun {
		return nil
	}
	ok, err := ui.Confirm(prompt, true)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// quiet reports whether spinners should be suppressed so composer's streamed
// output or dry-run notices stay readable.
func quiet() bool {
	return cfg.Output.Verbose || cfg.General.DryRun
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print updater version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("updater version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
