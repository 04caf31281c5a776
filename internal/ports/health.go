package ports

import (
	"context"
	"time"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
)

// Prober issues one liveness probe and reports the elapsed time on success.
// Implementations must honor ctx cancellation and abort the underlying call.
type Prober interface {
	Probe(ctx context.Context, ep health.Endpoint) (time.Duration, error)
}
