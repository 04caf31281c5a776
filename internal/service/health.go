package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
	obserrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

// DefaultProbeTimeout bounds each liveness probe.
const DefaultProbeTimeout = 3 * time.Second

// CycleObserver receives probe and cycle outcomes, e.g. for metrics.
type CycleObserver interface {
	ObserveProbe(rec health.Record, err error)
	ObserveCycle(elapsed time.Duration, finished time.Time)
}

// Observers fans every observation out to each observer in order.
type Observers []CycleObserver

// ObserveProbe implements CycleObserver.
func (o Observers) ObserveProbe(rec health.Record, err error) {
	for _, obs := range o {
		obs.ObserveProbe(rec, err)
	}
}

// ObserveCycle implements CycleObserver.
func (o Observers) ObserveCycle(elapsed time.Duration, finished time.Time) {
	for _, obs := range o {
		obs.ObserveCycle(elapsed, finished)
	}
}

// HealthAggregatorOptions groups dependencies for HealthAggregator.
type HealthAggregatorOptions struct {
	Endpoints []health.Endpoint
	Prober    ports.Prober
	Timeout   time.Duration
	Observer  CycleObserver
	Logger    *slog.Logger
	Now       func() time.Time
}

// Snapshot is the result of one completed cycle.
type Snapshot struct {
	Records     []health.Record
	CompletedAt time.Time
}

// HealthAggregator probes a fixed list of fleet endpoints concurrently.
type HealthAggregator struct {
	endpoints []health.Endpoint
	prober    ports.Prober
	timeout   time.Duration
	observer  CycleObserver
	logger    *slog.Logger
	now       func() time.Time

	latest atomic.Pointer[Snapshot]
	flight singleflight.Group
}

// NewHealthAggregator constructs a HealthAggregator.
func NewHealthAggregator(opts HealthAggregatorOptions) (*HealthAggregator, error) {
	if opts.Prober == nil {
		return nil, errors.New("prober is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultProbeTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &HealthAggregator{
		endpoints: append([]health.Endpoint(nil), opts.Endpoints...),
		prober:    opts.Prober,
		timeout:   opts.Timeout,
		observer:  opts.Observer,
		logger:    opts.Logger,
		now:       opts.Now,
	}, nil
}

// Endpoints returns the configured endpoint list.
func (a *HealthAggregator) Endpoints() []health.Endpoint {
	return append([]health.Endpoint(nil), a.endpoints...)
}

// Cycle probes every endpoint once, stores the result as the latest snapshot, and returns it.
// Output order matches the configured endpoint order. Probes never fail the cycle.
func (a *HealthAggregator) Cycle(ctx context.Context) []health.Record {
	start := a.now()
	records := make([]health.Record, len(a.endpoints))

	var g errgroup.Group
	for i, ep := range a.endpoints {
		g.Go(func() error {
			records[i] = a.probe(ctx, ep)
			return nil
		})
	}
	_ = g.Wait()

	finished := a.now()
	a.latest.Store(&Snapshot{Records: records, CompletedAt: finished})
	if a.observer != nil {
		a.observer.ObserveCycle(finished.Sub(start), finished)
	}
	return append([]health.Record(nil), records...)
}

func (a *HealthAggregator) probe(ctx context.Context, ep health.Endpoint) health.Record {
	pctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	elapsed, err := a.prober.Probe(pctx, ep)
	rec := health.Online(ep, elapsed)
	if err != nil {
		rec = health.Offline(ep)
		a.logger.DebugContext(ctx, "probe failed",
			"app", ep.Name,
			"error_class", obserrors.Classify(err),
			"error", err)
	}
	if a.observer != nil {
		a.observer.ObserveProbe(rec, err)
	}
	return rec
}

// Latest returns the most recent snapshot, if any cycle has completed.
func (a *HealthAggregator) Latest() (Snapshot, bool) {
	s := a.latest.Load()
	if s == nil {
		return Snapshot{}, false
	}
	return Snapshot{Records: append([]health.Record(nil), s.Records...), CompletedAt: s.CompletedAt}, true
}

// Current returns the latest snapshot's records, running a cycle first when none exists.
// Concurrent callers that find no snapshot share a single cycle.
func (a *HealthAggregator) Current(ctx context.Context) []health.Record {
	if s, ok := a.Latest(); ok {
		return s.Records
	}
	v, _, _ := a.flight.Do("cycle", func() (any, error) {
		if s, ok := a.Latest(); ok {
			return s.Records, nil
		}
		return a.Cycle(context.WithoutCancel(ctx)), nil
	})
	records, _ := v.([]health.Record)
	return append([]health.Record(nil), records...)
}
