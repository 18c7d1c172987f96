package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haroonj/Ai-Bot/config"
	"github.com/haroonj/Ai-Bot/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := newLogger(cfg)

		bot, cleanup, err := buildBot(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		serverOpts := []func(o *server.Options){server.WithLogger(logger)}
		if cfg.MetricsEnabled {
			serverOpts = append(serverOpts, server.WithDefaultMetrics())
		}

		httpServer := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           server.New(bot, serverOpts...).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("serve.listening", "addr", cfg.ListenAddr)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
			logger.Info("serve.shutting_down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
