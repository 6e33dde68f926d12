package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vmunix/anisearch/internal/logging"
	"github.com/vmunix/anisearch/internal/server"
	"github.com/vmunix/anisearch/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive search screen",
	Long: `Interactive search screen.

The startup query (search.startup_query) is searched on launch. Type a
title and press enter to search; tab moves focus to the results.`,
	Args: cobra.NoArgs,
	RunE: runTUICmd,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUICmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The screen belongs to the TUI; logs go to the configured file.
	log, closer, err := logging.NewFile(cfg.Log)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	ctx := cmd.Context()

	store := openHistory(cfg.History, log)
	if store != nil {
		defer store.Close()
		if cfg.History.Retention > 0 {
			if n, err := store.Prune(ctx, cfg.History.Retention); err != nil {
				log.Warn("history prune failed", "error", err)
			} else if n > 0 {
				log.Info("history pruned", "removed", n)
			}
		}
	}

	ctrl := newController(ctx, cfg, newCatalog(cfg.Catalog, log), recorder(store), log)
	defer ctrl.Close()

	runner := server.NewRunner(server.Config{MetricsAddress: cfg.Metrics.Address}, log)
	return runner.Run(ctx, func(ctx context.Context) error {
		p := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	})
}
