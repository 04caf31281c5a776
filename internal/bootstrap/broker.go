package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
	httpx "github.com/HARI5KRISHNAN/darevel-sub005/internal/http"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/statsd"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/service"
)

// BrokerDeps contains what BuildBroker needs beyond configuration.
// Provider and RedisClient are optional; when nil they are built from cfg.
type BrokerDeps struct {
	Provider    ports.IdentityProvider
	RedisClient redis.UniversalClient
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// BrokerApp is the assembled session broker.
type BrokerApp struct {
	Broker  *service.SessionBroker
	Handler http.Handler
	// Redis is the client opened for the pending store, if BuildBroker opened one.
	Redis redis.UniversalClient
}

// Close releases connections opened by BuildBroker.
func (a *BrokerApp) Close() error {
	if a == nil || a.Redis == nil {
		return nil
	}
	return a.Redis.Close()
}

// BuildBroker wires the identity provider, pending store, codec, and HTTP routes.
func BuildBroker(ctx context.Context, cfg *config.BrokerConfig, deps BrokerDeps) (*BrokerApp, error) {
	if cfg == nil {
		return nil, errors.New("broker config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	app := &BrokerApp{}

	provider := deps.Provider
	if provider == nil {
		p, err := BuildIdentityProvider(ctx, cfg.Auth, logger)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	redisClient := deps.RedisClient
	if cfg.PendingStore.Kind == config.PendingStoreRedis && redisClient == nil {
		c, err := ConnectRedis(ctx, RedisConnectConfig{Redis: cfg.Redis, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		redisClient = c
		app.Redis = c
	}

	pending, err := BuildPendingStore(PendingStoreConfig{
		Store:       cfg.PendingStore,
		KeyPrefix:   cfg.Redis.KeyPrefix,
		RedisClient: redisClient,
	})
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}

	codec, err := BuildCodec(cfg.Session, logger)
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}

	broker, err := service.NewSessionBroker(service.SessionBrokerOptions{
		Provider:           provider,
		Pending:            pending,
		Codec:              codec,
		RedirectURL:        cfg.Auth.OAuth.RedirectURL,
		SessionTTL:         cfg.Session.MaxAge,
		PendingTTL:         cfg.PendingStore.TTL,
		OmitProviderTokens: cfg.OmitProviderTokens,
		Metrics:            deps.Metrics,
		Logger:             logger,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create session broker: %w", err), app.Close())
	}
	app.Broker = broker

	app.Handler = httpx.NewBrokerRouter(httpx.BrokerRouterOptions{
		Handlers: &httpx.BrokerHandlers{
			Svc:       broker,
			Policy:    cfg.Session.Policy(),
			Callbacks: httpx.NewCallbackValidator(cfg.Session.CookieDomain, cfg.AllowedCallbackHosts),
			ErrorPath: cfg.ErrorPath,
			Logger:    logger,
		},
		ServiceName: cfg.ServiceName,
		Logger:      logger,
	})

	logger.InfoContext(ctx, "session broker ready",
		"auth_mode", cfg.Auth.Mode,
		"pending_store", cfg.PendingStore.Kind,
		"cookie_name", cfg.Session.CookieName,
		"cookie_domain", cfg.Session.CookieDomain,
		"encrypted", codec.Encrypted())
	return app, nil
}
