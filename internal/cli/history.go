package cli

import (
	"fmt"
	"time"

	"updater/internal/history"
	"updater/internal/ui"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	pruneAge     time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show journaled runs",
	Long: `Display the journal of require, apply, update and restore runs.

Examples:
  updater history                 # Show recent runs
  updater history -l 50           # Show the last 50 runs
  updater history show 3f2a9c1e   # Details and composer output of one run
  updater history prune --older-than 720h`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one journaled run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all journaled runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete journaled runs older than a given age",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyPruneCmd.Flags().DurationVar(&pruneAge, "older-than", 30*24*time.Hour, "age of entries to delete")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyPruneCmd)
}

func openHistory() (*history.Store, error) {
	store, err := history.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	ui.HeaderMsg("Run History")
	ui.PrintHistory(ui.Out, entries)

	if len(entries) > 0 {
		total, _ := store.Count()
		ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(args[0])
	if err != nil {
		return err
	}

	ui.HeaderMsg("%s", entry.Summary())
	ui.PrintEntry(ui.Out, entry)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if err := confirm("Delete all history entries?"); err != nil {
		return err
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	ui.SuccessMsg("History cleared")
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.Prune(pruneAge)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	ui.SuccessMsg("Removed %d entries older than %s", deleted, pruneAge)
	return nil
}
