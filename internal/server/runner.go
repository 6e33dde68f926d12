// Package server runs the long-lived components next to a front end.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/anisearch/internal/metrics"
)

const defaultShutdownTimeout = 5 * time.Second

// Config for the runner.
type Config struct {
	// MetricsAddress serves /metrics when set.
	MetricsAddress  string
	ShutdownTimeout time.Duration
}

// Runner manages the metrics server alongside a foreground front end.
type Runner struct {
	config Config
	logger *slog.Logger
	addr   net.Addr
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Runner{
		config: cfg,
		logger: logger,
	}
}

// Addr returns the metrics listener address once Run has bound it, or nil.
// It is safe to call from the foreground function.
func (r *Runner) Addr() net.Addr {
	return r.addr
}

// Run starts the metrics server, if configured, then runs fn. It returns
// when fn returns, the server fails or the context is canceled; the
// server is shut down in every case. The error from fn is returned as is.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if r.config.MetricsAddress != "" {
		ln, err := net.Listen("tcp", r.config.MetricsAddress)
		if err != nil {
			return fmt.Errorf("metrics listen: %w", err)
		}
		r.addr = ln.Addr()
		srv := metrics.NewHTTPServer(r.config.MetricsAddress)
		log := r.logger.With("component", "metrics")

		g.Go(func() error {
			log.Info("metrics server listening", "addr", ln.Addr().String())
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("metrics shutdown", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		// The front end finishing ends the run.
		defer cancel()
		return fn(ctx)
	})

	return g.Wait()
}
