// Package oidc provides the OIDC/OAuth2 identity provider adapter used by the session broker.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

// Provider implements ports.IdentityProvider using OIDC discovery and the authorization-code grant.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	// IssuerURL is the realm issuer; a trailing /.well-known/openid-configuration is tolerated.
	IssuerURL  string
	HTTPClient *http.Client // Optional, defaults to a client with a 30s timeout
}

// DiscoveryDocument represents the OIDC discovery document.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider performs discovery against the issuer and returns a ready provider.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{httpClient: httpClient}

	issuer := strings.TrimSuffix(config.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(p.clientContext(ctx), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	scopes := strings.Fields(config.Scope)
	if len(scopes) == 0 {
		scopes = []string{gooidc.ScopeOpenID, "profile", "email"}
	}
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       scopes,
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// clientContext makes the oauth2 and go-oidc libraries use our HTTP client.
func (p *Provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// Begin returns the provider authorization URL along with a fresh state and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	// redirect_uri comes from the oauth2 config; it must match the registered client exactly
	authURL := p.config.AuthCodeURL(state, gooidc.Nonce(nonce))
	return authURL, state, nonce, nil
}

// Exchange redeems the authorization code, verifies the id_token and its nonce, and maps claims.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	cctx := p.clientContext(ctx)
	token, err := p.config.Exchange(cctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, err := getIDTokenFromToken(token)
	if err != nil {
		return domainauth.Identity{}, err
	}
	fields, err := p.verifyIDToken(cctx, rawID, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, err
	}

	if fields.subject == "" || fields.email == "" {
		if fillErr := p.fillFromUserInfo(cctx, token, &fields); fillErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}
	if fields.subject == "" {
		return domainauth.Identity{}, errors.New("identity has no subject")
	}

	return domainauth.Identity{
		Subject:     fields.subject,
		Email:       fields.email,
		DisplayName: fields.displayName,
		Groups:      fields.groups,
		Tokens:      tokensFrom(token, rawID),
	}, nil
}

// Refresh uses the refresh-token grant to obtain fresh provider tokens.
// The refresh token is carried over when the provider does not rotate it.
func (p *Provider) Refresh(ctx context.Context, current domainauth.ProviderTokens) (domainauth.ProviderTokens, error) {
	if current.RefreshToken == "" {
		return domainauth.ProviderTokens{}, errors.New("refresh token is required")
	}
	// an expired access token forces the source to hit the token endpoint
	stale := &oauth2.Token{RefreshToken: current.RefreshToken, Expiry: time.Unix(1, 0)}
	tok, err := p.config.TokenSource(p.clientContext(ctx), stale).Token()
	if err != nil {
		return domainauth.ProviderTokens{}, fmt.Errorf("refresh token grant: %w", err)
	}
	rawID, _ := tok.Extra("id_token").(string)
	if rawID == "" {
		rawID = current.IDToken
	}
	return tokensFrom(tok, rawID), nil
}

func tokensFrom(tok *oauth2.Token, rawID string) domainauth.ProviderTokens {
	return domainauth.ProviderTokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		IDToken:      rawID,
		Expiry:       tok.Expiry,
	}
}

// UserInfo represents the subset of the userinfo response we map.
type UserInfo struct {
	Subject           string   `json:"sub"`
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	PreferredUsername string   `json:"preferred_username"`
	Groups            []string `json:"groups"`
}

type idFields struct {
	subject     string
	email       string
	displayName string
	groups      []string
}

func (p *Provider) verifyIDToken(ctx context.Context, rawID, expectedNonce string) (idFields, error) {
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return idFields{}, fmt.Errorf("verify id_token: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return idFields{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if claims.Nonce != expectedNonce {
		return idFields{}, errors.New("invalid nonce")
	}
	return mapIDTokenClaims(claims), nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, tok *oauth2.Token, f *idFields) error {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	var info UserInfo
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}
	fillFromUserInfoClaims(f, info)
	return nil
}

// idTokenClaims covers the standard OIDC profile claims plus a groups claim.
type idTokenClaims struct {
	Sub               string   `json:"sub"`
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	PreferredUsername string   `json:"preferred_username"`
	GivenName         string   `json:"given_name"`
	FamilyName        string   `json:"family_name"`
	Groups            []string `json:"groups"`
	Nonce             string   `json:"nonce"`
}

func mapIDTokenClaims(c idTokenClaims) idFields {
	full := strings.TrimSpace(c.GivenName + " " + c.FamilyName)
	return idFields{
		subject:     c.Sub,
		email:       c.Email,
		displayName: firstNonEmpty(c.Name, full, c.PreferredUsername),
		groups:      c.Groups,
	}
}

// fillFromUserInfoClaims fills only the fields the id_token left empty.
func fillFromUserInfoClaims(f *idFields, ui UserInfo) {
	if f.subject == "" {
		f.subject = ui.Subject
	}
	if f.email == "" {
		f.email = ui.Email
	}
	if f.displayName == "" {
		f.displayName = firstNonEmpty(ui.Name, ui.PreferredUsername)
	}
	if len(f.groups) == 0 {
		f.groups = ui.Groups
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	return s[:length], nil
}

func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
