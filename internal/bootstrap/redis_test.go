package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConnectRedis_Direct(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		uri  string
	}{
		{name: "host:port", uri: mr.Addr()},
		{name: "redis url", uri: "redis://" + mr.Addr() + "/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := ConnectRedis(context.Background(), RedisConnectConfig{
				Redis:  config.RedisConfig{URI: tt.uri},
				Logger: discardLogger(),
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = client.Close() })
			assert.NoError(t, client.Ping(context.Background()).Err())
		})
	}
}

func TestConnectRedis_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.RedisConfig
		want string
	}{
		{name: "empty uri", cfg: config.RedisConfig{URI: "  "}, want: "requires a URI"},
		{name: "sentinel without nodes", cfg: config.RedisConfig{UseSentinel: true}, want: "sentinel node"},
		{name: "cluster without nodes", cfg: config.RedisConfig{UseCluster: true}, want: "at least one address"},
		{name: "bad url", cfg: config.RedisConfig{URI: "redis://:bad:port:x"}, want: "parse redis url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConnectRedis(context.Background(), RedisConnectConfig{Redis: tt.cfg})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConnectRedis_PingFailureClosesClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := ConnectRedis(ctx, RedisConnectConfig{Redis: config.RedisConfig{URI: addr}})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "ping redis"), err.Error())
}

func TestBuildPendingStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client, err := ConnectRedis(ctx, RedisConnectConfig{Redis: config.RedisConfig{URI: mr.Addr()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	t.Run("memory", func(t *testing.T) {
		store, err := BuildPendingStore(PendingStoreConfig{
			Store: config.PendingStoreConfig{Kind: config.PendingStoreMemory, TTL: time.Minute, MaxEntries: 10},
		})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, domainauth.PendingSignIn{State: "s1"}, time.Minute))
		got, err := store.Take(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "s1", got.State)
	})

	t.Run("redis uses key prefix", func(t *testing.T) {
		store, err := BuildPendingStore(PendingStoreConfig{
			Store:       config.PendingStoreConfig{Kind: config.PendingStoreRedis, TTL: time.Minute},
			KeyPrefix:   "test:signin:",
			RedisClient: client,
		})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, domainauth.PendingSignIn{State: "s2"}, time.Minute))
		assert.True(t, mr.Exists("test:signin:s2"))

		_, err = store.Take(ctx, "s2")
		require.NoError(t, err)
		_, err = store.Take(ctx, "s2")
		assert.True(t, apperrors.IsNotFound(err), "second take should be not found, got %v", err)
	})

	t.Run("redis without client", func(t *testing.T) {
		_, err := BuildPendingStore(PendingStoreConfig{
			Store: config.PendingStoreConfig{Kind: config.PendingStoreRedis},
		})
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := BuildPendingStore(PendingStoreConfig{Store: config.PendingStoreConfig{Kind: "etcd"}})
		assert.Error(t, err)
	})
}
