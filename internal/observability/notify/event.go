// Package notify defines fleet status-change alerts and the sinks that deliver them.
package notify

import (
	"context"
	"time"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityInfo     = "info"
)

// StatusChange reports that an app's liveness flipped between two cycles.
// From is empty the first time an app is seen.
type StatusChange struct {
	App        string
	URL        string
	From       health.Status
	To         health.Status
	ErrorClass string
	OccurredAt time.Time
}

// Recovered reports whether the app came back online.
func (c StatusChange) Recovered() bool {
	return c.To == health.StatusOnline
}

// Severity is critical for an outage and info for a recovery.
func (c StatusChange) Severity() string {
	if c.Recovered() {
		return SeverityInfo
	}
	return SeverityCritical
}

// Sink describes a destination capable of consuming status changes.
type Sink interface {
	SendStatusChange(ctx context.Context, change StatusChange) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, change StatusChange) error

// SendStatusChange implements the Sink interface.
func (f SinkFunc) SendStatusChange(ctx context.Context, change StatusChange) error {
	if f == nil {
		return nil
	}
	return f(ctx, change)
}

// Deliver calls send up to retries+1 times with a linear backoff between attempts.
func Deliver(ctx context.Context, retries int, send func(context.Context) error) error {
	attempts := max(retries, 0) + 1
	var lastErr error
	for attempt := range attempts {
		lastErr = send(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt < attempts-1 {
			// Simple linear backoff to avoid thundering retries.
			timer := time.NewTimer(time.Duration(attempt+1) * 200 * time.Millisecond)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}
