package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/anisearch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Args:  cobra.NoArgs,
	RunE:  runHistoryCmd,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete searches older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPruneCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of searches to show (0 for all)")
	historyPruneCmd.Flags().Duration("older-than", 0, "Override history.retention")
}

var errHistoryDisabled = errors.New("history is disabled (history.enabled = false)")

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errHistoryDisabled
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	return showHistory(cmd.Context(), cmd.OutOrStdout(), store, limit, jsonOutput)
}

func showHistory(ctx context.Context, out io.Writer, store *history.Store, limit int, asJSON bool) error {
	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if asJSON {
		if entries == nil {
			entries = []history.Entry{}
		}
		return printJSON(out, entries)
	}
	printHistory(out, entries)
	return nil
}

func runHistoryPruneCmd(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errHistoryDisabled
	}
	if olderThan <= 0 {
		olderThan = cfg.History.Retention
	}
	if olderThan <= 0 {
		return errors.New("no retention configured; pass --older-than")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	n, err := store.Prune(cmd.Context(), olderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d searches older than %s\n", n, olderThan.Round(time.Second))
	return nil
}
