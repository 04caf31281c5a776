// Package clientcreds provides an app-local token authority using the OAuth2 client-credentials grant.
package clientcreds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
)

// Config holds the confidential client registration for one application.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	HTTPClient   *http.Client // Optional, defaults to a client with a 10s timeout
}

// Authority implements ports.TokenAuthority. Client-credentials has no refresh
// token, so Refresh performs a fresh grant.
type Authority struct {
	config     clientcredentials.Config
	httpClient *http.Client
}

// New validates cfg and returns an Authority.
func New(cfg Config) (*Authority, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.TokenURL == "" {
		return nil, errors.New("token URL is required")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Authority{
		config: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		},
		httpClient: hc,
	}, nil
}

// Authenticate performs the initial grant.
func (a *Authority) Authenticate(ctx context.Context) (domainauth.ProviderTokens, error) {
	return a.grant(ctx)
}

// Refresh performs a new grant; the current tokens are not needed.
func (a *Authority) Refresh(ctx context.Context, _ domainauth.ProviderTokens) (domainauth.ProviderTokens, error) {
	return a.grant(ctx)
}

func (a *Authority) grant(ctx context.Context) (domainauth.ProviderTokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	tok, err := a.config.Token(ctx)
	if err != nil {
		return domainauth.ProviderTokens{}, fmt.Errorf("client credentials grant: %w", err)
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return domainauth.ProviderTokens{}, errors.New("client credentials grant: empty access token")
	}
	return domainauth.ProviderTokens{
		AccessToken: tok.AccessToken,
		Expiry:      tok.Expiry,
	}, nil
}
