package refreshloop

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
	obserrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/metrics"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/statsd"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

const (
	// DefaultInterval is how often the runner checks the token.
	DefaultInterval = 60 * time.Second
	// DefaultThreshold is the remaining lifetime below which a refresh is attempted.
	DefaultThreshold = 70 * time.Second
)

// Outcome describes what a single tick did.
type Outcome string

const (
	OutcomeRefreshed     Outcome = "refreshed"
	OutcomeReauthed      Outcome = "reauthenticated"
	OutcomeFresh         Outcome = "fresh"
	OutcomeSkipped       Outcome = "skipped"
	OutcomeFailed        Outcome = "failed"
	OutcomeAuthenticated Outcome = "authenticated"
)

// ReauthHook is told when the cached token was dropped and a fresh handshake is required.
type ReauthHook func(ctx context.Context, cause error)

// Options holds the dependencies for creating a Runner.
type Options struct {
	Authority ports.TokenAuthority
	Cache     *TokenCache
	Interval  time.Duration
	Threshold time.Duration
	OnReauth  ReauthHook
	Logger    *slog.Logger
	Metrics   statsd.Sink
	Now       func() time.Time
}

// Runner refreshes the cached token when it is close to expiry.
type Runner struct {
	authority ports.TokenAuthority
	cache     *TokenCache
	interval  time.Duration
	threshold time.Duration
	onReauth  ReauthHook
	logger    *slog.Logger
	metrics   statsd.Sink
	now       func() time.Time

	inFlight atomic.Bool
}

// NewRunner creates a Runner with defaults applied.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Authority == nil {
		return nil, errors.New("token authority is required")
	}
	if opts.Cache == nil {
		opts.Cache = NewTokenCache()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		authority: opts.Authority,
		cache:     opts.Cache,
		interval:  opts.Interval,
		threshold: opts.Threshold,
		onReauth:  opts.OnReauth,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}, nil
}

// Cache returns the token cache the runner writes to.
func (r *Runner) Cache() *TokenCache { return r.cache }

// Start performs the initial handshake unless a token is already cached.
func (r *Runner) Start(ctx context.Context) error {
	if _, ok := r.cache.Load(); ok {
		return nil
	}
	if err := r.authenticate(ctx); err != nil {
		r.reauth(ctx, err)
		return err
	}
	return nil
}

// Run performs Start and then ticks until ctx is cancelled.
// A failed initial handshake ends Run with a refresh failure.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "refresh loop started",
		"interval", r.interval,
		"threshold", r.threshold)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "refresh loop stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.Tick(ctx); err != nil {
				r.logger.WarnContext(ctx, "refresh tick failed",
					"error_class", obserrors.Classify(err),
					"error", err)
			}
		}
	}
}

// Tick checks the cached token once and refreshes it when its remaining
// lifetime is below the threshold. Overlapping calls are skipped.
func (r *Runner) Tick(ctx context.Context) (Outcome, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.emit(metrics.ResultSkipped, 0, nil)
		return OutcomeSkipped, nil
	}
	defer r.inFlight.Store(false)

	start := r.now()
	current, ok := r.cache.Load()
	if !ok {
		if err := r.authenticate(ctx); err != nil {
			r.reauth(ctx, err)
			r.emit(metrics.ResultError, r.now().Sub(start), err)
			return OutcomeFailed, err
		}
		r.emit(metrics.ResultSuccess, r.now().Sub(start), nil)
		return OutcomeAuthenticated, nil
	}

	if current.Remaining(r.now()) >= r.threshold {
		r.emit(metrics.ResultNoop, 0, nil)
		return OutcomeFresh, nil
	}

	fresh, err := r.authority.Refresh(ctx, current)
	if err == nil {
		r.cache.store(fresh, r.now())
		r.emit(metrics.ResultSuccess, r.now().Sub(start), nil)
		return OutcomeRefreshed, nil
	}

	failure := apperrors.RefreshFailure(err)
	r.emit(metrics.ResultError, r.now().Sub(start), failure)
	r.cache.fail(failure, r.now())
	r.reauth(ctx, failure)

	if aerr := r.authenticate(ctx); aerr != nil {
		return OutcomeFailed, aerr
	}
	return OutcomeReauthed, nil
}

func (r *Runner) authenticate(ctx context.Context) error {
	tokens, err := r.authority.Authenticate(ctx)
	if err != nil {
		failure := apperrors.RefreshFailure(err)
		r.cache.fail(failure, r.now())
		return failure
	}
	r.cache.store(tokens, r.now())
	r.logger.InfoContext(ctx, "local session established", "expires_at", tokens.Expiry)
	return nil
}

func (r *Runner) reauth(ctx context.Context, cause error) {
	r.logger.WarnContext(ctx, "local session dropped, re-authentication required",
		"error_class", obserrors.Classify(cause))
	if r.onReauth != nil {
		r.onReauth(ctx, cause)
	}
}

func (r *Runner) emit(result string, d time.Duration, err error) {
	metrics.EmitRefreshTick(r.metrics, metrics.RefreshMetric{Result: result, Duration: d, Err: err})
}
