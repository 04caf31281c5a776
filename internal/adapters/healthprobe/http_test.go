package healthprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
)

func TestHTTPProber_Online(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"docs","timestamp":"2025-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	p := NewHTTPProber()
	elapsed, err := p.Probe(context.Background(), health.Endpoint{Name: "docs", URL: srv.URL})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
}

func TestHTTPProber_LatencyUsesClock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 42 * time.Millisecond)
	}

	p := NewHTTPProber(WithClock(clock))
	elapsed, err := p.Probe(context.Background(), health.Endpoint{Name: "mail", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 42*time.Millisecond, elapsed)
}

func TestHTTPProber_Non2xxIsConnectionFailure(t *testing.T) {
	for _, code := range []int{http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if code == http.StatusFound {
				http.Redirect(w, r, "/signin", code)
				return
			}
			w.WriteHeader(code)
		}))

		_, err := NewHTTPProber().Probe(context.Background(), health.Endpoint{Name: "x", URL: srv.URL})
		srv.Close()

		require.Error(t, err, "status %d", code)
		assert.Equal(t, apperrors.ErrCodeProbeConnection, apperrors.GetCode(err))
	}
}

func TestHTTPProber_TimeoutCancelsRequest(t *testing.T) {
	released := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-released:
		}
	}))
	defer srv.Close()
	defer close(released)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewHTTPProber().Probe(ctx, health.Endpoint{Name: "slow", URL: srv.URL})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeProbeTimeout, apperrors.GetCode(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPProber_StalledBodyIsTimeout(t *testing.T) {
	released := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-released:
		}
	}))
	defer srv.Close()
	defer close(released)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	elapsed, err := NewHTTPProber().Probe(ctx, health.Endpoint{Name: "stalled", URL: srv.URL})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeProbeTimeout, apperrors.GetCode(err))
	assert.Zero(t, elapsed)
}

func TestHTTPProber_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPProber().Probe(context.Background(), health.Endpoint{Name: "gone", URL: url})
	require.Error(t, err)
	assert.True(t, apperrors.IsProbeFailure(err))
	assert.Equal(t, apperrors.ErrCodeProbeConnection, apperrors.GetCode(err))
}

func TestHTTPProber_BadURL(t *testing.T) {
	_, err := NewHTTPProber().Probe(context.Background(), health.Endpoint{Name: "bad", URL: "://nope"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeProbeConnection, apperrors.GetCode(err))
}
