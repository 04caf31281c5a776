// Command appgate fronts one fleet application: it serves the app's /health,
// guards every other path with the shared session cookie, and optionally keeps
// an app-local provider token fresh for upstream calls.
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
	cfg, err := bootstrap.LoadGateConfig()
	if err != nil {
		return err
	}
	logger = logger.With("service", cfg.ServiceName)
	logger.InfoContext(ctx, "starting app gate",
		"addr", cfg.HTTP.Addr,
		"verify", cfg.Guard.Verify,
		"local_session", cfg.LocalAuth.Enabled)

	metrics, err := bootstrap.NewMetricsSink(cfg.Observability.Metrics, cfg.ServiceName, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := metrics.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics failed", "error", cerr)
		}
	}()

	app, err := bootstrap.BuildGate(ctx, &cfg, bootstrap.GateDeps{
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunWithShutdown(ctx, bootstrap.RunConfig{
		HTTP:        cfg.HTTP,
		Handler:     app.Handler,
		Backgrounds: app.Backgrounds(),
		Logger:      logger,
	})
}
