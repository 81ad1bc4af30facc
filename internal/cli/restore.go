package cli

import (
	"fmt"
	"os"

	"updater/internal/history"
	"updater/internal/ui"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Write a journaled manifest snapshot back",
	Long: `Restore composer.json to the content it had before a journaled run.
Without an ID the most recent restorable run is used.

Overrides removed by a failed require are not put back automatically; this
command is the manual way back. The restore itself is journaled, so it can be
undone the same way.

Examples:
  updater restore             # Undo the most recent change
  updater restore 3f2a9c1e    # Restore the manifest from a specific run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	var target *history.Entry
	if len(args) == 1 {
		target, err = store.Get(args[0])
		if err != nil {
			return err
		}
	} else {
		target, err = lastRestorable(store)
		if err != nil {
			return err
		}
	}
	if !target.CanRestore() {
		return fmt.Errorf("%w: %s", history.ErrNoSnapshot, target.Summary())
	}

	ui.HeaderMsg("Restoring: %s", target.Summary())
	ui.MutedMsg("  manifest: %s", target.ManifestPath)
	if cfg.General.DryRun {
		ui.InfoMsg("[dry-run] Would restore %s from %s", target.ManifestPath, target.ShortID())
		return nil
	}
	if err := confirm("Overwrite the manifest?"); err != nil {
		return err
	}

	entry := history.NewEntry(history.OpRestore, target.ManifestPath, nil)
	entry.Directive = target.ShortID()
	if data, readErr := os.ReadFile(target.ManifestPath); readErr == nil {
		entry.SetSnapshot(data)
	}

	_, err = store.Restore(target.ID)
	if err != nil {
		entry.MarkFailed(err)
	} else {
		entry.MarkSuccess()
	}
	if cfg.General.History {
		if recErr := store.Record(entry); recErr != nil {
			ui.WarningMsg("Failed to record restore: %v", recErr)
		}
	}
	if err != nil {
		return err
	}

	ui.SuccessMsg("Restored %s", target.ManifestPath)
	return nil
}

// lastRestorable returns the most recent entry carrying a snapshot.
func lastRestorable(store *history.Store) (*history.Entry, error) {
	entries, err := store.List(50)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.CanRestore() {
			return store.Get(e.ID)
		}
	}
	return nil, fmt.Errorf("%w: no restorable runs found", history.ErrNotFound)
}
