package cli

import (
	"context"
	"errors"
	"os"

	"updater/internal/history"
	"updater/internal/logging"
	"updater/internal/ui"
	"updater/pkg/composer"
)

// newEntry starts a journal entry for the configured manifest, capturing its
// current content so the run can be restored later.
func newEntry(op history.Operation, directive string, packages []string) *history.Entry {
	entry := history.NewEntry(op, mgr.ManifestPath(), packages)
	entry.Directive = directive
	entry.DryRun = cfg.General.DryRun

	if data, err := os.ReadFile(entry.ManifestPath); err == nil {
		entry.SetSnapshot(data)
	}
	return entry
}

// finishEntry records the outcome of a run, keeping composer's output for
// failed commands.
func finishEntry(ctx context.Context, entry *history.Entry, err error) {
	if err != nil {
		entry.MarkFailed(err)
		var cmdErr *composer.CommandError
		if errors.As(err, &cmdErr) {
			entry.Output = cmdErr.Output
		}
	} else {
		entry.MarkSuccess()
	}
	recordHistory(ctx, entry)
}

// recordHistory writes entry to the journal. Failures are logged, not returned.
func recordHistory(ctx context.Context, entry *history.Entry) {
	if !cfg.General.History {
		return
	}

	store, err := history.Open()
	if err != nil {
		logging.FromContext(ctx).Warn("history unavailable", "err", err)
		return
	}
	defer store.Close()

	if err := store.Record(entry); err != nil {
		logging.FromContext(ctx).Warn("failed to record history", "err", err)
		return
	}
	logging.FromContext(ctx).Debug("recorded history entry", "id", entry.ID, "operation", entry.Operation)
}

// runDirective applies directive with params, journaling the run.
func runDirective(ctx context.Context, op history.Operation, directive string, params []composer.Params) error {
	packages := describeParams(params)

	ui.InfoMsg("Applying %s to %s", ui.Bold(directive), mgr.ManifestPath())
	for _, p := range packages {
		ui.MutedMsg("  - %s", p)
	}
	if err := confirm("Proceed?"); err != nil {
		return err
	}

	entry := newEntry(op, directive, packages)
	progress := logging.NewProgress(logging.FromContext(ctx))

	err := ui.WithSpinner("Running composer "+directive, quiet(), func() error {
		_, err := mgr.UpdateConfigFile(ctx, directive, params)
		return err
	})
	finishEntry(ctx, entry, err)
	if err != nil {
		reportCommandOutput(err)
		return err
	}

	progress.Done("Applied " + directive)
	if entry.CanRestore() {
		ui.MutedMsg("Previous manifest saved; undo with: updater restore %s", entry.ShortID())
	}
	return nil
}

// reportCommandOutput prints composer's output for a failed command when it
// was not already streamed.
func reportCommandOutput(err error) {
	var cmdErr *composer.CommandError
	if !errors.As(err, &cmdErr) || cfg.Output.Verbose || cmdErr.Output == "" {
		return
	}
	ui.MutedMsg("%s", cmdErr.Output)
}
