package devauth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{Subject: "dev-user", Email: "dev@example.com", Groups: []string{"users"}})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	authURL, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "http://localhost:8080/api/auth/callback"})
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !strings.HasPrefix(authURL, "http://localhost:8080/api/auth/callback?") {
		t.Fatalf("unexpected authURL: %s", authURL)
	}
	u, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("parse authURL: %v", err)
	}
	if u.Query().Get("state") != state || u.Query().Get("code") != "dev" {
		t.Fatalf("authURL query mismatch: %s", authURL)
	}
	if state == "" || nonce == "" {
		t.Fatal("state and nonce should be generated")
	}
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.Subject != "dev-user" || id.Email != "dev@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.Tokens.AccessToken == "" || id.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens, got %+v", id.Tokens)
	}
}

func TestProvider_BeginDefaultsCallback(t *testing.T) {
	prov, err := NewProvider(Config{Subject: "u", Email: "u@example.com"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	authURL, _, _, err := prov.Begin(context.Background(), ports.BeginInput{})
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !strings.HasPrefix(authURL, DefaultCallbackPath+"?") {
		t.Fatalf("unexpected authURL: %s", authURL)
	}
}

func TestProvider_ExchangeRejectsUnknownCode(t *testing.T) {
	prov, err := NewProvider(Config{Subject: "u", Email: "u@example.com"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	if _, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "forged"}); err == nil {
		t.Fatal("expected error for unknown code")
	}
}

func TestProvider_AuthenticateAndRefresh(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	prov, err := NewProvider(Config{Subject: "u", Email: "u@example.com", TokenTTL: 2 * time.Minute, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	first, err := prov.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if !first.Expiry.Equal(now.Add(2 * time.Minute)) {
		t.Fatalf("unexpected expiry: %v", first.Expiry)
	}
	next, err := prov.Refresh(context.Background(), first)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if next.AccessToken == first.AccessToken {
		t.Fatal("refresh should mint a new access token")
	}
	if next.RefreshToken != first.RefreshToken {
		t.Fatal("refresh token should be kept")
	}
	if _, err := prov.Refresh(context.Background(), domainauth.ProviderTokens{AccessToken: next.AccessToken}); err == nil {
		t.Fatal("expected error without refresh token")
	}
}

func TestNewProvider_Validation(t *testing.T) {
	if _, err := NewProvider(Config{Email: "x@example.com"}); err == nil {
		t.Fatal("expected error without subject")
	}
	if _, err := NewProvider(Config{Subject: "x"}); err == nil {
		t.Fatal("expected error without email")
	}
}
