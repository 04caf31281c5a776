package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
	obserrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/notify"
)

// DefaultAlertTimeout bounds delivery of one batch of status changes.
const DefaultAlertTimeout = 15 * time.Second

// StatusChangeNotifierOptions groups dependencies for StatusChangeNotifier.
type StatusChangeNotifierOptions struct {
	Sinks   []notify.Sink
	Timeout time.Duration
	Logger  *slog.Logger
	Now     func() time.Time
}

// StatusChangeNotifier is a CycleObserver that alerts when an app's status
// flips. An app first seen offline also alerts; one first seen online does not.
// Delivery runs in the background after each cycle so probes are never delayed.
type StatusChangeNotifier struct {
	sinks   []notify.Sink
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	last    map[string]health.Status
	pending []notify.StatusChange

	wg sync.WaitGroup
}

var _ CycleObserver = (*StatusChangeNotifier)(nil)

// NewStatusChangeNotifier constructs a StatusChangeNotifier.
func NewStatusChangeNotifier(opts StatusChangeNotifierOptions) *StatusChangeNotifier {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultAlertTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &StatusChangeNotifier{
		sinks:   append([]notify.Sink(nil), opts.Sinks...),
		timeout: opts.Timeout,
		logger:  opts.Logger,
		now:     opts.Now,
		last:    map[string]health.Status{},
	}
}

// ObserveProbe records the probe outcome and queues a change when the status flipped.
// Probes aborted by shutdown are ignored.
func (n *StatusChangeNotifier) ObserveProbe(rec health.Record, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	prev, seen := n.last[rec.Name]
	n.last[rec.Name] = rec.Status
	if prev == rec.Status || (!seen && rec.Status == health.StatusOnline) {
		return
	}
	n.pending = append(n.pending, notify.StatusChange{
		App:        rec.Name,
		URL:        rec.URL,
		From:       prev,
		To:         rec.Status,
		ErrorClass: obserrors.Classify(err),
		OccurredAt: n.now(),
	})
}

// ObserveCycle dispatches the changes queued during the cycle.
func (n *StatusChangeNotifier) ObserveCycle(time.Duration, time.Time) {
	n.mu.Lock()
	changes := n.pending
	n.pending = nil
	n.mu.Unlock()

	if len(changes) == 0 || len(n.sinks) == 0 {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.dispatch(changes)
	}()
}

func (n *StatusChangeNotifier) dispatch(changes []notify.StatusChange) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	for _, change := range changes {
		n.logger.InfoContext(ctx, "fleet status change",
			"app", change.App,
			"from", change.From,
			"to", change.To,
			"error_class", change.ErrorClass)
		for _, sink := range n.sinks {
			if err := sink.SendStatusChange(ctx, change); err != nil {
				n.logger.WarnContext(ctx, "status change delivery failed",
					"app", change.App,
					"error", err)
			}
		}
	}
}

// Wait blocks until in-flight deliveries finish.
func (n *StatusChangeNotifier) Wait() {
	n.wg.Wait()
}
