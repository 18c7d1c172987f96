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

	"github.com/haroonj/Ai-Bot/commerce"
	"github.com/haroonj/Ai-Bot/config"
)

var mockapiCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Run the standalone mock commerce API",
	Long: `Runs the mock commerce API with the sample orders, for developing
against AIBOT_COMMERCE_API_URL instead of the built-in store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := newLogger(cfg)

		srv := commerce.NewServer(commerce.NewSampleStore(), func(o *commerce.ServerOptions) {
			o.Logger = logger
		})
		httpServer := &http.Server{
			Addr:              cfg.MockAPIAddr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("mockapi.listening", "addr", cfg.MockAPIAddr)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("mockapi: %w", err)
			}
			return nil
		case <-ctx.Done():
			logger.Info("mockapi.shutting_down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	rootCmd.AddCommand(mockapiCmd)
}
