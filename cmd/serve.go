package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qrguard/internal/api"
	"qrguard/internal/api/handler/v1handler"
	"qrguard/internal/config"
	"qrguard/internal/qr"
	"qrguard/internal/safety"
	"qrguard/pkg/logger"
	"qrguard/pkg/reputation"
	"qrguard/pkg/reputation/safebrowsing"
	"qrguard/pkg/reputation/virustotal"
)

// getChecker builds the safety checker over the configured reputation
// sources. A source without an API key is left out entirely, so it never
// participates in the safety conjunction.
func getChecker(ctx context.Context, cfg *config.Config) *safety.Checker {
	var sources []reputation.Source

	if cfg.Reputation.VirusTotalAPIKey != "" {
		sources = append(sources, virustotal.New(
			http.DefaultClient,
			cfg.Reputation.VirusTotalBaseURL,
			cfg.Reputation.VirusTotalAPIKey,
			cfg.Reputation.AnalysisDelay))
	} else {
		logger.Warn(ctx, "VirusTotal API key not configured, source disabled")
	}

	if cfg.Reputation.SafeBrowsingAPIKey != "" {
		sources = append(sources, safebrowsing.New(
			http.DefaultClient,
			cfg.Reputation.SafeBrowsingEndpoint,
			cfg.Reputation.SafeBrowsingAPIKey))
	} else {
		logger.Warn(ctx, "Safe Browsing API key not configured, source disabled")
	}

	return safety.New(safety.NewOptions(cfg), sources...)
}

func setupServer(ctx context.Context, cfg *config.Config) func(ctx context.Context) {
	server, err := api.NewServer(api.Deps{
		Deps: v1handler.Deps{
			Detector: getDetector(ctx, cfg),
			Checker:  getChecker(ctx, cfg),
			Decode:   qr.Decode,
		},
	}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			stopWebserver := setupServer(ctx, cfg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
		},
	}

	return cmd
}
