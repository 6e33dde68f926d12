package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/anisearch/internal/config"
	"github.com/vmunix/anisearch/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the catalog once and print the results",
	Long: `Search the catalog once and print the results.

Examples:
  anisearch search naruto
  anisearch search one piece --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := stderrLogger(cfg)

	store := openHistory(cfg.History, log)
	if store != nil {
		defer store.Close()
	}

	catalog := newCatalog(cfg.Catalog, log)
	return searchOnce(cmd.Context(), cmd.OutOrStdout(), cfg, catalog, recorder(store), log, strings.Join(args, " "), jsonOutput)
}

// searchOnce submits query, waits for its outcome and prints it. A failed
// fetch is returned as an error regardless of the configured failure
// policy, since a one-shot search has no later query to recover with.
func searchOnce(ctx context.Context, out io.Writer, cfg *config.Config, catalog search.Catalog, rec search.Recorder, log *slog.Logger, query string, asJSON bool) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("query is empty")
	}

	ctrl := newController(ctx, cfg, catalog, rec, log,
		search.WithStartupQuery(""),
		search.WithClearLoadingOnFailure(true),
	)
	defer ctrl.Close()

	ctrl.SubmitQuery(query)
	ctrl.Wait()

	state := ctrl.State()
	if state.Err != nil {
		return fmt.Errorf("search failed: %w", state.Err)
	}

	if asJSON {
		return printJSON(out, state.Results)
	}
	printResults(out, query, state.Results)
	return nil
}
