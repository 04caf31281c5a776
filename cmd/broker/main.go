// Command broker runs the central session broker: sign-in, the provider
// callback, sign-out, and session status for every app in the fleet.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	logger := bootstrap.InitLogger()
	err := run(ctx, logger)
	stop()
	if err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadBrokerConfig()
	if err != nil {
		return err
	}
	logStartupInfo(ctx, logger, &cfg)

	metrics, err := bootstrap.NewMetricsSink(cfg.Observability.Metrics, cfg.ServiceName, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := metrics.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics failed", "error", cerr)
		}
	}()

	app, err := bootstrap.BuildBroker(ctx, &cfg, bootstrap.BrokerDeps{
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	return bootstrap.RunWithShutdown(ctx, bootstrap.RunConfig{
		HTTP:    cfg.HTTP,
		Handler: app.Handler,
		Logger:  logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.BrokerConfig) {
	logger.InfoContext(ctx, "starting session broker",
		"service", cfg.ServiceName,
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"pending_store", cfg.PendingStore.Kind,
		"dev", cfg.IsDev)
}
