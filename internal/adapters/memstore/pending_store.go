// Package memstore provides an in-process pending sign-in store for single-replica and local deployments.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
)

// ErrNotFound is returned when no live pending sign-in exists for a state.
var ErrNotFound error = apperrors.NotFound("pending sign-in not found")

// Config sizes the store.
type Config struct {
	// MaxEntries bounds memory under a flood of abandoned sign-ins; oldest entries are evicted first.
	MaxEntries int
	// MaxTTL is the hard upper bound on any entry's lifetime.
	MaxTTL time.Duration
	// Now is the clock used for per-entry expiry; defaults to time.Now.
	Now func() time.Time
}

type entry struct {
	pending   domainauth.PendingSignIn
	expiresAt time.Time
}

// PendingStore keeps pending sign-ins in an expirable LRU.
// Entries expire at their own ttl; the LRU's TTL only caps how long any entry may linger.
type PendingStore struct {
	mu    sync.Mutex
	cache *lru.LRU[string, entry]
	now   func() time.Time
}

// NewPendingStore creates an in-memory pending store.
func NewPendingStore(cfg Config) *PendingStore {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10000
	}
	if cfg.MaxTTL <= 0 {
		cfg.MaxTTL = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &PendingStore{
		cache: lru.NewLRU[string, entry](cfg.MaxEntries, nil, cfg.MaxTTL),
		now:   cfg.Now,
	}
}

// Save stores p under its state for ttl.
func (s *PendingStore) Save(_ context.Context, p domainauth.PendingSignIn, ttl time.Duration) error {
	if p.State == "" {
		return errors.New("pending sign-in state cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("pending sign-in ttl must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cache.Peek(p.State); exists {
		return errors.New("pending sign-in state already exists")
	}
	s.cache.Add(p.State, entry{pending: p, expiresAt: s.now().Add(ttl)})
	return nil
}

// Take removes and returns the pending sign-in for state if it is still live.
func (s *PendingStore) Take(_ context.Context, state string) (domainauth.PendingSignIn, error) {
	if state == "" {
		return domainauth.PendingSignIn{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache.Peek(state)
	if !ok {
		return domainauth.PendingSignIn{}, ErrNotFound
	}
	s.cache.Remove(state)
	if !s.now().Before(e.expiresAt) {
		return domainauth.PendingSignIn{}, ErrNotFound
	}
	return e.pending, nil
}

// Len reports the number of entries currently held, including ones not yet evicted.
func (s *PendingStore) Len() int {
	return s.cache.Len()
}
