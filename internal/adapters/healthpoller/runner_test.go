package healthpoller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
)

type countingCycler struct {
	n atomic.Int32
}

func (c *countingCycler) Cycle(context.Context) []health.Record {
	c.n.Add(1)
	return []health.Record{health.Offline(health.Endpoint{Name: "docs"})}
}

func TestNewRunner_Validation(t *testing.T) {
	_, err := NewRunner(RunnerOptions{})
	require.Error(t, err)

	_, err = NewRunner(RunnerOptions{Aggregator: &countingCycler{}, Schedule: "not a schedule"})
	require.Error(t, err)

	r, err := NewRunner(RunnerOptions{Aggregator: &countingCycler{}})
	require.NoError(t, err)
	assert.Equal(t, DefaultSchedule, r.spec)
}

func TestRun_ImmediateCycleThenSchedule(t *testing.T) {
	cy := &countingCycler{}
	r, err := NewRunner(RunnerOptions{Aggregator: cy, Schedule: "@every 1s"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return cy.n.Load() >= 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return cy.n.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	cy := &countingCycler{}
	r, err := NewRunner(RunnerOptions{Aggregator: cy})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, int32(0), cy.n.Load())
}
