package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/recommend"
	"github.com/hyperjump/kuliner/internal/reload"
	"github.com/hyperjump/kuliner/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Long: `Builds the engine from the configured dataset and serves the HTTP API. When
dataset.watch is set, edits to the dataset file rebuild the engine in the background.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			defer a.close()
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, opts, err := a.loadEngine(ctx)
	if err != nil {
		return err
	}
	holder := recommend.NewHolder(e)
	srv := server.NewServer(holder, a.cfg, a.logger)

	if a.cfg.Dataset.Watch {
		w := reload.NewWatcher(a.cfg.Dataset.Source(), holder,
			reload.WithLogger(a.logger),
			reload.WithDebounce(a.cfg.Dataset.Debounce),
			reload.WithEngineOptions(opts...),
			reload.OnSwap(srv.OnSwap))
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		a.logger.Warn("server shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
