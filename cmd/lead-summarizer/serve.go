package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"lead-summarizer/internal/api"
	"lead-summarizer/internal/common/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the enrichment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Address
		}

		srv := &http.Server{
			Addr: addr,
			Handler: api.NewServer(api.Options{
				Enricher:       p.Handler,
				Readiness:      p.Store,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Logger:         log,
			}),
			ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		}

		go func() {
			<-ctx.Done()
			zapLog.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zapLog.Error("server shutdown failed", zap.Error(err))
			}
		}()

		zapLog.Info("starting server",
			zap.String("address", addr),
			zap.String("provider", cfg.Model.Provider),
			zap.String("store", cfg.Store.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
