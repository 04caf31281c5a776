package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/adapters/clientcreds"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/adapters/refreshloop"
	httpx "github.com/HARI5KRISHNAN/darevel-sub005/internal/http"
	obserrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/statsd"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/service"
)

// GateDeps contains what BuildGate needs beyond configuration.
// Authority overrides the client-credentials authority built from cfg.LocalAuth.
type GateDeps struct {
	Authority ports.TokenAuthority
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// GateApp is the assembled per-app gate.
type GateApp struct {
	Handler http.Handler
	// Refresh is nil unless the app-local session is enabled.
	Refresh *refreshloop.Runner
}

// Backgrounds returns the gate's background services.
func (a *GateApp) Backgrounds() []BackgroundService {
	if a == nil || a.Refresh == nil {
		return nil
	}
	return []BackgroundService{{Name: "refresh loop", Start: a.Refresh.Run}}
}

// BuildGate wires the session guard in front of the upstream app.
func BuildGate(ctx context.Context, cfg *config.GateConfig, deps GateDeps) (*GateApp, error) {
	if cfg == nil {
		return nil, errors.New("gate config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	app := &GateApp{}

	guard := httpx.GuardConfig{
		CookieName:    cfg.Session.CookieName,
		SignInURL:     cfg.Guard.SignInURL,
		PublicPaths:   cfg.Guard.PublicPaths,
		PublicBaseURL: cfg.Guard.PublicBaseURL,
		Logger:        logger,
	}
	if cfg.Guard.Verify {
		codec, err := BuildCodec(cfg.Session, logger)
		if err != nil {
			return nil, err
		}
		verifier, err := service.NewSessionVerifier(service.SessionVerifierOptions{
			Codec:   codec,
			Metrics: deps.Metrics,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create session verifier: %w", err)
		}
		guard.Reader = verifier
	}

	target, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	proxyOpts := httpx.UpstreamProxyOptions{Target: target, Logger: logger}

	if cfg.LocalAuth.Enabled || deps.Authority != nil {
		runner, err := buildRefreshRunner(cfg.LocalAuth, deps, logger)
		if err != nil {
			return nil, err
		}
		app.Refresh = runner
		proxyOpts.Tokens = runner.Cache()
	}

	app.Handler = httpx.NewGateRouter(httpx.GateRouterOptions{
		Guard:       guard,
		Upstream:    httpx.NewUpstreamProxy(proxyOpts),
		ServiceName: cfg.ServiceName,
		Logger:      logger,
	})

	logger.InfoContext(ctx, "session gate ready",
		"service", cfg.ServiceName,
		"upstream", target.Redacted(),
		"verify", cfg.Guard.Verify,
		"local_session", app.Refresh != nil)
	return app, nil
}

func buildRefreshRunner(cfg config.LocalAuthConfig, deps GateDeps, logger *slog.Logger) (*refreshloop.Runner, error) {
	authority := deps.Authority
	if authority == nil {
		a, err := clientcreds.New(clientcreds.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		})
		if err != nil {
			return nil, fmt.Errorf("create token authority: %w", err)
		}
		authority = a
	}

	runner, err := refreshloop.NewRunner(refreshloop.Options{
		Authority: authority,
		Interval:  cfg.Interval,
		Threshold: cfg.Threshold,
		OnReauth: func(ctx context.Context, cause error) {
			logger.WarnContext(ctx, "local session dropped; re-authenticating",
				"error_class", obserrors.Classify(cause),
				"error", cause)
		},
		Logger:  logger,
		Metrics: deps.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create refresh loop: %w", err)
	}
	return runner, nil
}
