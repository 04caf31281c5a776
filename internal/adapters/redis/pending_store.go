// Package redis provides the Redis-backed pending sign-in store used by the session broker.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
)

// DefaultPrefix namespaces pending sign-in keys.
const DefaultPrefix = "signin:"

// PendingStore keeps issued sign-in state in Redis until the callback consumes it.
// Take uses GETDEL so a state can be redeemed at most once across broker replicas.
type PendingStore struct {
	client redis.UniversalClient
	prefix string
}

// NewPendingStore creates a Redis pending store with the default key prefix.
func NewPendingStore(client redis.UniversalClient) *PendingStore {
	return NewPendingStoreWithPrefix(client, DefaultPrefix)
}

// NewPendingStoreWithPrefix creates a Redis pending store with a custom key prefix.
func NewPendingStoreWithPrefix(client redis.UniversalClient, prefix string) *PendingStore {
	return &PendingStore{client: client, prefix: prefix}
}

// Save stores p under its state for ttl.
func (s *PendingStore) Save(ctx context.Context, p domainauth.PendingSignIn, ttl time.Duration) error {
	if p.State == "" {
		return errors.New("pending sign-in state cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("pending sign-in ttl must be positive")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending sign-in: %w", err)
	}

	// NX: a colliding state must never overwrite one already issued
	ok, err := s.client.SetNX(ctx, s.prefix+p.State, data, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return errors.New("pending sign-in state already exists")
	}
	return nil
}

// Take atomically fetches and deletes the pending sign-in for state.
// Unknown, expired, and already-consumed states all return ErrNotFound.
func (s *PendingStore) Take(ctx context.Context, state string) (domainauth.PendingSignIn, error) {
	if state == "" {
		return domainauth.PendingSignIn{}, ErrNotFound
	}

	data, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.PendingSignIn{}, ErrNotFound
		}
		return domainauth.PendingSignIn{}, fmt.Errorf("redis getdel: %w", err)
	}

	var p domainauth.PendingSignIn
	if unmarshalErr := json.Unmarshal([]byte(data), &p); unmarshalErr != nil {
		return domainauth.PendingSignIn{}, fmt.Errorf("unmarshal pending sign-in: %w", unmarshalErr)
	}
	return p, nil
}

// ErrNotFound is returned when no pending sign-in exists for a state.
var ErrNotFound error = apperrors.NotFound("pending sign-in not found")
