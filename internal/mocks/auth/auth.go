// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.PendingStore     = (*MemoryPendingStore)(nil)
	_ ports.SessionCodec     = (*PlainCodec)(nil)
)

// MockIdentityProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockIdentityProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
	exchanges []ports.ExchangeInput
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible defaults.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			Subject:     "mock-user-1",
			Email:       "mock.user@example.com",
			DisplayName: "Mock User",
			Tokens: domainauth.ProviderTokens{
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
				IDToken:      "id-1",
			},
		},
	}
}

func (m *MockIdentityProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	return authURL, fmt.Sprintf("%s-%d", statePrefix, n), fmt.Sprintf("%s-%d", noncePrefix, n), nil
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	m.mu.Lock()
	m.exchanges = append(m.exchanges, in)
	m.mu.Unlock()

	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	user := m.DefaultUser
	if user.Subject == "" {
		user = domainauth.Identity{Subject: "mock-user-1", Email: "mock.user@example.com"}
	}
	user.Tokens.Expiry = time.Now().Add(time.Hour)
	return user, nil
}

// Exchanges returns a copy of the inputs passed to Exchange.
func (m *MockIdentityProvider) Exchanges() []ports.ExchangeInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.ExchangeInput(nil), m.exchanges...)
}

// MemoryPendingStore is an in-memory pending sign-in store for unit tests. TTLs are ignored.
type MemoryPendingStore struct {
	mu      sync.Mutex
	pending map[string]domainauth.PendingSignIn
	SaveErr error
}

// NewMemoryPendingStore creates a new in-memory pending store.
func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{pending: make(map[string]domainauth.PendingSignIn)}
}

func (m *MemoryPendingStore) Save(_ context.Context, p domainauth.PendingSignIn, _ time.Duration) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if p.State == "" {
		return errors.New("state cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[p.State] = p
	return nil
}

func (m *MemoryPendingStore) Take(_ context.Context, state string) (domainauth.PendingSignIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[state]
	if !ok {
		return domainauth.PendingSignIn{}, ErrNotFound
	}
	delete(m.pending, state)
	return p, nil
}

// Len reports how many pending entries remain.
func (m *MemoryPendingStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// PlainCodec is an unsigned JSON codec for tests that exercise callers, not cryptography.
// It rejects anything without its prefix and records past their expiry relative to Now.
type PlainCodec struct {
	Now func() time.Time
}

const plainPrefix = "plain."

func (c PlainCodec) Encode(rec domainauth.SessionRecord) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return plainPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

func (c PlainCodec) Decode(token string) (domainauth.SessionRecord, error) {
	if !strings.HasPrefix(token, plainPrefix) {
		return domainauth.SessionRecord{}, errors.New("not a plain token")
	}
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(token, plainPrefix))
	if err != nil {
		return domainauth.SessionRecord{}, err
	}
	var rec domainauth.SessionRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return domainauth.SessionRecord{}, err
	}
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	if rec.Expired(now) {
		return domainauth.SessionRecord{}, errors.New("expired")
	}
	return rec, nil
}

// ErrNotFound is returned by mocks when an entity is not present.
var ErrNotFound error = apperrors.NotFound("not found")
