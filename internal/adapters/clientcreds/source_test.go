package clientcreds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
)

func tokenServer(t *testing.T, calls *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		calls.Add(1)
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"svc-token","token_type":"Bearer","expires_in":120}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthority_AuthenticateAndRefresh(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls, http.StatusOK)

	a, err := New(Config{ClientID: "docs", ClientSecret: "s3cret", TokenURL: srv.URL, Scopes: []string{"openid"}})
	require.NoError(t, err)

	tok, err := a.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "svc-token", tok.AccessToken)
	assert.WithinDuration(t, time.Now().Add(2*time.Minute), tok.Expiry, 10*time.Second)

	_, err = a.Refresh(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "refresh must hit the token endpoint again")
}

func TestAuthority_GrantRejected(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls, http.StatusUnauthorized)

	a, err := New(Config{ClientID: "docs", ClientSecret: "wrong", TokenURL: srv.URL})
	require.NoError(t, err)

	_, err = a.Refresh(context.Background(), domainauth.ProviderTokens{AccessToken: "old"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client credentials grant")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{ClientSecret: "s", TokenURL: "http://x"})
	require.Error(t, err)
	_, err = New(Config{ClientID: "c", TokenURL: "http://x"})
	require.Error(t, err)
	_, err = New(Config{ClientID: "c", ClientSecret: "s"})
	require.Error(t, err)
}
