package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/adapters/devauth"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/adapters/memstore"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/adapters/oidc"
	redisadapter "github.com/HARI5KRISHNAN/darevel-sub005/internal/adapters/redis"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

// BuildIdentityProvider creates the provider for the configured auth mode.
// OAuth mode performs OIDC discovery and fails if the issuer is unreachable.
//
//nolint:ireturn // the broker depends only on the port.
func BuildIdentityProvider(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (ports.IdentityProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			Subject:     cfg.DevAuth.UserID,
			Email:       cfg.DevAuth.Email,
			DisplayName: cfg.DevAuth.DisplayName,
			Groups:      cfg.DevAuth.Groups,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		if logger != nil {
			logger.WarnContext(ctx, "mock authentication enabled; every sign-in succeeds", "user", cfg.DevAuth.UserID)
		}
		return prov, nil

	case config.AuthModeOAuth, "":
		oauth := cfg.OAuth
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			IssuerURL:    oauth.IssuerURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc provider: %w", err)
		}
		if logger != nil {
			logger.InfoContext(ctx, "oidc provider ready", "issuer", oauth.IssuerURL)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}

// PendingStoreConfig contains what BuildPendingStore needs.
type PendingStoreConfig struct {
	Store       config.PendingStoreConfig
	KeyPrefix   string
	RedisClient redis.UniversalClient // required for the redis kind
}

// BuildPendingStore creates the pending sign-in store.
//
//nolint:ireturn // callers depend only on the port.
func BuildPendingStore(cfg PendingStoreConfig) (ports.PendingStore, error) {
	switch cfg.Store.Kind {
	case config.PendingStoreMemory:
		return memstore.NewPendingStore(memstore.Config{
			MaxEntries: cfg.Store.MaxEntries,
			MaxTTL:     cfg.Store.TTL,
		}), nil
	case config.PendingStoreRedis:
		if cfg.RedisClient == nil {
			return nil, errors.New("redis pending store requires a redis client")
		}
		prefix := cfg.KeyPrefix
		if prefix == "" {
			prefix = redisadapter.DefaultPrefix
		}
		return redisadapter.NewPendingStoreWithPrefix(cfg.RedisClient, prefix), nil
	default:
		return nil, fmt.Errorf("unsupported pending store %q", cfg.Store.Kind)
	}
}
