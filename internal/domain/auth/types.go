// Package auth contains domain-level types for federated sign-in and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"strings"
	"time"
)

// ProviderTokens are the raw tokens returned by the identity provider.
type ProviderTokens struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       time.Time // zero when the provider did not report one
}

// Remaining reports the lifetime left on the access token at now.
// A zero Expiry is treated as already expired.
func (t ProviderTokens) Remaining(now time.Time) time.Duration {
	if t.Expiry.IsZero() {
		return 0
	}
	return t.Expiry.Sub(now)
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	Subject     string // stable user identifier (sub)
	Email       string
	DisplayName string
	Groups      []string
	Tokens      ProviderTokens
}

// SessionRecord is the authenticated-user state minted by the broker.
// Only the broker constructs one; everyone else receives it decoded from a token.
type SessionRecord struct {
	ID           string    `json:"id"`
	Subject      string    `json:"sub"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"name"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its expiry at now.
func (s SessionRecord) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// PendingSignIn is the broker-side state held between initiate and complete.
type PendingSignIn struct {
	State       string    `json:"state"`
	Nonce       string    `json:"nonce"`
	CallbackURL string    `json:"callback_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// SameSite mirrors the cookie SameSite attribute without importing net/http.
type SameSite string

const (
	SameSiteLax    SameSite = "lax"
	SameSiteStrict SameSite = "strict"
	SameSiteNone   SameSite = "none"
)

// ParseSameSite maps a config string to a SameSite value, defaulting to Lax.
func ParseSameSite(v string) SameSite {
	switch SameSite(strings.ToLower(strings.TrimSpace(v))) {
	case SameSiteStrict:
		return SameSiteStrict
	case SameSiteNone:
		return SameSiteNone
	default:
		return SameSiteLax
	}
}

// CookiePolicy decides how one deployed application stores the session token.
// Apps sharing a sign-on experience must use the same Name and a common parent Domain.
type CookiePolicy struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite SameSite
	MaxAge   time.Duration
}
