// Package healthpoller runs fleet health cycles on a cron schedule.
package healthpoller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
)

// DefaultSchedule polls the fleet every 30 seconds.
const DefaultSchedule = "@every 30s"

// Cycler runs one probe cycle and stores its result.
type Cycler interface {
	Cycle(ctx context.Context) []health.Record
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Aggregator Cycler
	Schedule   string
	Logger     *slog.Logger
}

// Runner drives the aggregator from a cron schedule.
type Runner struct {
	agg      Cycler
	schedule cron.Schedule
	spec     string
	logger   *slog.Logger
}

// NewRunner parses the schedule and creates a Runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Aggregator == nil {
		return nil, errors.New("aggregator is required")
	}
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	sched, err := cron.ParseStandard(opts.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", opts.Schedule, err)
	}
	return &Runner{agg: opts.Aggregator, schedule: sched, spec: opts.Schedule, logger: opts.Logger}, nil
}

// Run performs one cycle immediately, then one per schedule tick until ctx is cancelled.
// A tick that fires while the previous cycle is still running is skipped.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting health poller", "schedule", r.spec)
	r.runCycle(ctx)

	logger := cronLogger{l: r.logger}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	c.Schedule(r.schedule, cron.FuncJob(func() { r.runCycle(ctx) }))
	c.Start()

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	r.logger.Info("health poller stopped", "reason", ctx.Err())
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func (r *Runner) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	records := r.agg.Cycle(ctx)
	offline := 0
	for _, rec := range records {
		if rec.Status == health.StatusOffline {
			offline++
		}
	}
	r.logger.DebugContext(ctx, "health cycle complete",
		"apps", len(records),
		"offline", offline,
		"duration", time.Since(start))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
