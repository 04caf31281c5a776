// Package ports defines interfaces (hexagonal ports) for sign-in, sessions, and fleet health.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"time"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	// RedirectURL is where the provider sends the browser back to (our callback endpoint).
	RedirectURL string
}

// IdentityProvider initiates and completes an authorization-code flow against an IdP.
type IdentityProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange trades the authorization code for tokens, verifying the nonce, and returns the identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// PendingStore holds issued sign-in state between initiate and complete.
// Take must be atomic: a state can be consumed at most once. Unknown, expired,
// and already-consumed states return an error satisfying errors.IsNotFound.
type PendingStore interface {
	Save(ctx context.Context, p domainauth.PendingSignIn, ttl time.Duration) error
	Take(ctx context.Context, state string) (domainauth.PendingSignIn, error)
}

// SessionCodec converts a session record to and from its opaque cookie form.
type SessionCodec interface {
	Encode(rec domainauth.SessionRecord) (string, error)
	Decode(token string) (domainauth.SessionRecord, error)
}

// SessionReader validates a token and returns the record, or an error for any failure.
type SessionReader interface {
	ReadSession(ctx context.Context, token string) (domainauth.SessionRecord, error)
}

// TokenAuthority obtains and refreshes an app-local provider token.
type TokenAuthority interface {
	// Authenticate performs the initial handshake.
	Authenticate(ctx context.Context) (domainauth.ProviderTokens, error)
	// Refresh exchanges the current tokens for fresh ones.
	Refresh(ctx context.Context, current domainauth.ProviderTokens) (domainauth.ProviderTokens, error)
}
