package main

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/vmunix/anisearch/internal/config"
	"github.com/vmunix/anisearch/internal/history"
	"github.com/vmunix/anisearch/internal/metrics"
	"github.com/vmunix/anisearch/internal/search"
	"github.com/vmunix/anisearch/pkg/jikan"
)

// newCatalog builds the Jikan client from config. Requests are counted and
// timed by the metrics transport.
func newCatalog(cfg config.CatalogConfig, log *slog.Logger) *jikan.Client {
	return jikan.New(
		jikan.WithBaseURL(cfg.BaseURL),
		jikan.WithTimeout(cfg.Timeout),
		jikan.WithUserAgent(cfg.UserAgent),
		jikan.WithTransport(metrics.InstrumentTransport(nil)),
		jikan.WithLogger(log),
	)
}

// newController wires a controller to the catalog and, when non-nil, the
// history recorder. Extra options are applied last.
func newController(ctx context.Context, cfg *config.Config, catalog search.Catalog, rec search.Recorder, log *slog.Logger, extra ...search.Option) *search.Controller {
	opts := []search.Option{
		search.WithContext(ctx),
		search.WithLogger(log),
		search.WithStartupQuery(cfg.Search.StartupQuery),
		search.WithClearLoadingOnFailure(cfg.Search.ClearLoadingOnFailure),
	}
	if cfg.Catalog.EscapeQuery {
		opts = append(opts, search.WithQueryEncoder(url.QueryEscape))
	}
	if rec != nil {
		opts = append(opts, search.WithRecorder(rec))
	}
	opts = append(opts, extra...)
	return search.New(catalog, opts...)
}

// openHistory opens the history store when enabled. Failures are logged
// and searching continues without history.
func openHistory(cfg config.HistoryConfig, log *slog.Logger) *history.Store {
	if !cfg.Enabled {
		return nil
	}
	store, err := history.Open(cfg.Path)
	if err != nil {
		log.Warn("history unavailable", "path", cfg.Path, "error", err)
		return nil
	}
	return store
}

// recorder converts a possibly nil store to a possibly nil interface.
func recorder(store *history.Store) search.Recorder {
	if store == nil {
		return nil
	}
	return store
}
