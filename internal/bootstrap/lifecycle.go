package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	// shutdownWaitTimeout is the maximum time to wait for background services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// BackgroundService describes a startable background component.
// Start must return once its context is cancelled.
type BackgroundService struct {
	Name  string
	Start func(context.Context) error
}

// RunConfig groups what RunWithShutdown drives.
type RunConfig struct {
	HTTP        config.HTTPConfig
	Handler     http.Handler
	Backgrounds []BackgroundService
	Logger      *slog.Logger
}

type backgroundHandle struct {
	name string
	done <-chan struct{}
}

// RunWithShutdown serves HTTP and runs the background services until ctx is
// cancelled or any of them fails, then stops everything gracefully.
// It returns the first failure, or nil on a clean shutdown.
func RunWithShutdown(ctx context.Context, cfg RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	server, httpErr, err := StartHTTPServer(HTTPServerConfig{
		HTTP:    cfg.HTTP,
		Handler: cfg.Handler,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	errCh := make(chan error, len(cfg.Backgrounds))
	handles := make([]backgroundHandle, 0, len(cfg.Backgrounds))
	for _, svc := range cfg.Backgrounds {
		handles = append(handles, launchBackground(serviceCtx, svc, errCh, logger))
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down services...")
	case err, ok := <-httpErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case runErr = <-errCh:
		logger.Error("service error", "error", runErr)
	}
	cancel()

	// ctx may already be cancelled; the server still gets its full drain window.
	if stopErr := ShutdownHTTPServer(ShutdownConfig{
		Context: context.WithoutCancel(ctx),
		Server:  server,
		HTTP:    cfg.HTTP,
		Logger:  logger,
	}); stopErr != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown http server: %w", stopErr))
	}

	for _, h := range handles {
		waitForService(h.done, h.name, logger)
	}
	return runErr
}

func launchBackground(ctx context.Context, svc BackgroundService, errCh chan<- error, logger *slog.Logger) backgroundHandle {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := svc.Start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", svc.Name, err)
			select {
			case errCh <- errMsg:
			default:
				logger.WarnContext(ctx, "dropping background service error", "service", svc.Name, "error", errMsg)
			}
		}
	}()
	logger.Info("started " + svc.Name)
	return backgroundHandle{name: svc.Name, done: done}
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
