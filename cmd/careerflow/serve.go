package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/careerflow/internal/cli"
	"github.com/aretw0/careerflow/internal/metrics"
	"github.com/aretw0/careerflow/internal/token"
	httpAdapter "github.com/aretw0/careerflow/pkg/adapters/http"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 5 * time.Second
	// flowPruneInterval bounds how long flows of expired sessions stay in memory.
	flowPruneInterval = time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the assessment pages and JSON API, gated by the session's completed stages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		m := metrics.New()
		hooks := m.Hooks().Merge(cli.DebugHooks(logger))

		eng, storage, err := cli.NewEngine(ctx, cfg, afero.NewOsFs(), logger, hooks)
		if err != nil {
			return fmt.Errorf("initializing careerflow: %w", err)
		}
		defer storage.Close()

		secret := cfg.Token.Secret
		if secret == "" {
			secret, err = randomSecret()
			if err != nil {
				return err
			}
			logger.Warn("token.secret not set; sessions will not survive a restart")
		}
		tokens, err := token.NewService(secret, cfg.Token.TTL)
		if err != nil {
			return err
		}

		api := httpAdapter.NewServer(eng.Sessions(), tokens, eng.Backend(),
			httpAdapter.WithHooks(hooks),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(m.Handler()),
			httpAdapter.WithQuestionnaire(cfg.Assessment.PageSize, cfg.Assessment.Total),
			httpAdapter.WithTopDomains(cfg.Assessment.TopDomains),
		)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("starting careerflow server", "addr", srv.Addr, "store", cfg.Session.Store)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			ticker := time.NewTicker(flowPruneInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if _, err := api.PruneFlows(gctx); err != nil {
						logger.Warn("failed to prune assessment flows", "error", err)
					}
				}
			}
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("killing server: %w", err)
				}
			}
			logger.Info("careerflow server stopped gracefully")
			return nil
		})
		return g.Wait()
	},
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
