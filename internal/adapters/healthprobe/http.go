// Package healthprobe implements liveness probes over HTTP.
package healthprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
)

// maxDrain caps how much of a probe body is read before closing so connections can be reused.
const maxDrain = 64 << 10

// HTTPProber issues GET requests and treats any 2xx response as alive.
type HTTPProber struct {
	client *http.Client
	now    func() time.Time
}

// Option configures an HTTPProber.
type Option func(*HTTPProber)

// WithClient overrides the HTTP client. Its Timeout should be zero; deadlines come from the probe context.
func WithClient(c *http.Client) Option {
	return func(p *HTTPProber) { p.client = c }
}

// WithClock overrides the clock used to measure latency.
func WithClock(now func() time.Time) Option {
	return func(p *HTTPProber) { p.now = now }
}

// NewHTTPProber constructs a prober with a dedicated transport.
func NewHTTPProber(opts ...Option) *HTTPProber {
	p := &HTTPProber{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
			// never follow redirects: a redirect to a sign-in page is not liveness
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe performs one GET against ep.URL bounded by ctx.
// Failures are classified as probe_timeout or probe_connection.
func (p *HTTPProber) Probe(ctx context.Context, ep health.Endpoint) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		return 0, apperrors.Wrapf(err, apperrors.ErrCodeProbeConnection, "probe %s: build request", ep.Name)
	}
	req.Header.Set("Accept", "application/json")

	start := p.now()
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, classify(ctx, ep, err)
	}
	defer resp.Body.Close()
	_, drainErr := io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	elapsed := p.now().Sub(start)

	// a body stalled past the deadline is a timeout even after 2xx headers
	if drainErr == nil {
		drainErr = ctx.Err()
	}
	if drainErr != nil {
		return 0, classify(ctx, ep, drainErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, apperrors.Wrapf(fmt.Errorf("status %d", resp.StatusCode),
			apperrors.ErrCodeProbeConnection, "probe %s: unexpected status", ep.Name)
	}
	return elapsed, nil
}

func classify(ctx context.Context, ep health.Endpoint, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrapf(err, apperrors.ErrCodeProbeTimeout, "probe %s: timed out", ep.Name)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Wrapf(err, apperrors.ErrCodeProbeTimeout, "probe %s: timed out", ep.Name)
	}
	return apperrors.Wrapf(err, apperrors.ErrCodeProbeConnection, "probe %s: request failed", ep.Name)
}
