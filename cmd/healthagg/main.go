// Command healthagg probes every fleet application and serves the combined
// result at GET /health, plus Prometheus metrics at GET /metrics.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

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
	cfg, err := bootstrap.LoadAggregatorConfig()
	if err != nil {
		return err
	}

	app, err := bootstrap.BuildAggregator(ctx, &cfg, bootstrap.AggregatorDeps{Logger: logger})
	if err != nil {
		return err
	}
	defer app.Drain()

	return bootstrap.RunWithShutdown(ctx, bootstrap.RunConfig{
		HTTP:        cfg.HTTP,
		Handler:     app.Handler,
		Backgrounds: app.Backgrounds(),
		Logger:      logger,
	})
}
