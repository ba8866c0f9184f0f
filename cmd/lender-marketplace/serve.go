package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iwvelando/lender-marketplace/internal/catalog"
	"github.com/iwvelando/lender-marketplace/internal/marketplace"
	"github.com/iwvelando/lender-marketplace/internal/recorder"
	"github.com/iwvelando/lender-marketplace/internal/scoring"
	"github.com/iwvelando/lender-marketplace/internal/server"
	"github.com/iwvelando/lender-marketplace/pkg/constants"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the marketplace HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx, port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	return cmd
}

func (c *cli) serve(ctx context.Context, port int) error {
	store, err := c.loadCatalog()
	if err != nil {
		return err
	}

	rec, err := recorder.Open(c.logger, c.conf.Recorder.Driver, c.conf.Recorder.Path)
	if err != nil {
		return eris.Wrap(err, "failed to open decision recorder")
	}
	defer func() {
		if err := rec.Close(); err != nil {
			c.logger.Warn("failed to close decision recorder", zap.String("op", "main.serve"), zap.Error(err))
		}
	}()

	opts, err := server.OptionsFromConfig(c.conf.Server)
	if err != nil {
		return err
	}

	deps := server.Dependencies{
		Engine:   marketplace.NewEngine(c.logger, store),
		Catalog:  store,
		Recorder: rec,
	}
	if c.conf.Scoring.URL != "" {
		deps.Scorer = c.newScoringClient()
	}

	addr := c.conf.Server.Address
	if port != 0 {
		addr = fmt.Sprintf(":%d", port)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewHandler(c.logger, deps, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.logger.Info("starting server",
			zap.String("op", "main.serve"),
			zap.String("address", addr),
			zap.String("version", opts.Version),
			zap.Bool("quote", deps.Scorer != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		c.logger.Info("shutting down server", zap.String("op", "main.serve"))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if c.conf.Catalog.Watch || c.conf.Catalog.RefreshSchedule != "" {
		w := catalog.NewWatcher(c.logger, c.conf.Catalog.Path, store, c.conf.Catalog.RefreshSchedule)
		if !c.conf.Catalog.Watch {
			w.DisableFileEvents()
		}
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	return g.Wait()
}

func (c *cli) newScoringClient() *scoring.Client {
	timeout := c.conf.Scoring.Timeout()
	if timeout <= 0 {
		timeout = constants.DefaultScoringTimeoutSeconds * time.Second
	}
	retry := scoring.DefaultRetryConfig()
	if c.conf.Scoring.MaxAttempts > 0 {
		retry.MaxAttempts = c.conf.Scoring.MaxAttempts
	}
	return scoring.NewClient(c.logger, c.conf.Scoring.URL,
		scoring.WithTimeout(timeout),
		scoring.WithRetry(retry),
	)
}
