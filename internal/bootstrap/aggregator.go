package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/adapters/healthpoller"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/adapters/healthprobe"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
	httpx "github.com/HARI5KRISHNAN/darevel-sub005/internal/http"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/fleetmetrics"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/notify"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/notify/pagerduty"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/notify/slack"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/service"
)

// AggregatorDeps contains what BuildAggregator needs beyond configuration.
type AggregatorDeps struct {
	// Prober defaults to an HTTP prober.
	Prober ports.Prober
	// Registry defaults to a fresh registry with Go and process collectors.
	Registry *prometheus.Registry
	// Sinks are appended to the alert sinks built from cfg.Alerts.
	Sinks  []notify.Sink
	Logger *slog.Logger
}

// AggregatorApp is the assembled fleet health aggregator.
type AggregatorApp struct {
	Aggregator *service.HealthAggregator
	Poller     *healthpoller.Runner
	Handler    http.Handler
	// Alerts is nil when no alert sink is configured.
	Alerts *service.StatusChangeNotifier
}

// Backgrounds returns the aggregator's background services.
func (a *AggregatorApp) Backgrounds() []BackgroundService {
	return []BackgroundService{{Name: "health poller", Start: a.Poller.Run}}
}

// Drain waits for in-flight alert deliveries.
func (a *AggregatorApp) Drain() {
	if a != nil && a.Alerts != nil {
		a.Alerts.Wait()
	}
}

// BuildAggregator wires the prober, aggregator, poller, metrics, and HTTP routes.
func BuildAggregator(ctx context.Context, cfg *config.AggregatorConfig, deps AggregatorDeps) (*AggregatorApp, error) {
	if cfg == nil {
		return nil, errors.New("aggregator config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	prober := deps.Prober
	if prober == nil {
		prober = healthprobe.NewHTTPProber()
	}

	endpoints := make([]health.Endpoint, 0, len(cfg.Fleet.Endpoints()))
	for _, ep := range cfg.Fleet.Endpoints() {
		endpoints = append(endpoints, health.Endpoint{Name: ep.Name, URL: ep.URL})
	}

	sinks, err := BuildAlertSinks(cfg.Alerts)
	if err != nil {
		return nil, err
	}
	sinks = append(sinks, deps.Sinks...)

	observers := service.Observers{fleetmetrics.New(reg)}
	var alerts *service.StatusChangeNotifier
	if len(sinks) > 0 {
		alerts = service.NewStatusChangeNotifier(service.StatusChangeNotifierOptions{
			Sinks:  sinks,
			Logger: logger,
		})
		observers = append(observers, alerts)
	}

	agg, err := service.NewHealthAggregator(service.HealthAggregatorOptions{
		Endpoints: endpoints,
		Prober:    prober,
		Timeout:   cfg.Fleet.ProbeTimeout,
		Observer:  observers,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create health aggregator: %w", err)
	}

	poller, err := healthpoller.NewRunner(healthpoller.RunnerOptions{
		Aggregator: agg,
		Schedule:   cfg.Fleet.Schedule,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create health poller: %w", err)
	}

	logger.InfoContext(ctx, "health aggregator ready",
		"apps", len(endpoints),
		"probe_timeout", cfg.Fleet.ProbeTimeout,
		"schedule", cfg.Fleet.Schedule,
		"alert_sinks", len(sinks))

	return &AggregatorApp{
		Aggregator: agg,
		Poller:     poller,
		Alerts:     alerts,
		Handler: httpx.NewAggregatorRouter(httpx.AggregatorRouterOptions{
			Fleet:   agg,
			Metrics: fleetmetrics.Handler(reg),
			Logger:  logger,
		}),
	}, nil
}

// BuildAlertSinks returns the Slack and PagerDuty sinks enabled in cfg.
func BuildAlertSinks(cfg config.AlertsConfig) ([]notify.Sink, error) {
	var sinks []notify.Sink
	if cfg.SlackWebhookURL != "" {
		c, err := slack.NewClient(slack.Config{
			WebhookURL: cfg.SlackWebhookURL,
			Channel:    cfg.SlackChannel,
			Username:   cfg.SlackUsername,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("create slack sink: %w", err)
		}
		sinks = append(sinks, c)
	}
	if cfg.PagerDutyRoutingKey != "" {
		c, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.PagerDutyRoutingKey,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("create pagerduty sink: %w", err)
		}
		sinks = append(sinks, c)
	}
	return sinks, nil
}
