// Package devauth provides a config-driven identity provider and token authority for local development.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

// DefaultCallbackPath is used when Begin is called without a redirect URL.
const DefaultCallbackPath = "/api/auth/callback"

// Config controls the dev provider behavior.
// Subject and Email are required; the rest are optional.
type Config struct {
	Subject     string
	Email       string
	DisplayName string
	Groups      []string
	TokenTTL    time.Duration // default 5m when zero
	Now         func() time.Time
}

// Provider short-circuits the OAuth flow by redirecting back to our own callback
// with locally generated state. Exchange accepts only the code it issued.
type Provider struct {
	identity domainauth.Identity
	tokenTTL time.Duration
	now      func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Subject == "" {
		return nil, errors.New("dev auth: Subject is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{
		identity: domainauth.Identity{
			Subject:     cfg.Subject,
			Email:       cfg.Email,
			DisplayName: cfg.DisplayName,
			Groups:      append([]string(nil), cfg.Groups...),
		},
		tokenTTL: ttl,
		now:      now,
	}, nil
}

// Begin returns our own callback URL carrying the dev code and a fresh state.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	target := in.RedirectURL
	if target == "" {
		target = DefaultCallbackPath
	}
	q := url.Values{"code": {"dev"}, "state": {state}}
	return target + "?" + q.Encode(), state, nonce, nil
}

// Exchange returns the configured identity with freshly minted dev tokens.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code != "dev" {
		return domainauth.Identity{}, errors.New("dev auth: unknown authorization code")
	}
	tokens, err := p.mint("")
	if err != nil {
		return domainauth.Identity{}, err
	}
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	id.Tokens = tokens
	return id, nil
}

// Authenticate mints an initial token pair.
func (p *Provider) Authenticate(_ context.Context) (domainauth.ProviderTokens, error) {
	return p.mint("")
}

// Refresh mints a new access token, keeping the refresh token.
func (p *Provider) Refresh(_ context.Context, current domainauth.ProviderTokens) (domainauth.ProviderTokens, error) {
	if current.RefreshToken == "" {
		return domainauth.ProviderTokens{}, errors.New("dev auth: refresh token is required")
	}
	return p.mint(current.RefreshToken)
}

func (p *Provider) mint(refresh string) (domainauth.ProviderTokens, error) {
	access, err := randomString(32)
	if err != nil {
		return domainauth.ProviderTokens{}, fmt.Errorf("generate token: %w", err)
	}
	if refresh == "" {
		if refresh, err = randomString(32); err != nil {
			return domainauth.ProviderTokens{}, fmt.Errorf("generate token: %w", err)
		}
	}
	return domainauth.ProviderTokens{
		AccessToken:  "dev-" + access,
		RefreshToken: refresh,
		Expiry:       p.now().Add(p.tokenTTL),
	}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
