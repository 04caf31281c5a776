package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/statsd"
)

// NewMetricsSink creates the StatsD client. A disabled config yields a client that drops everything.
func NewMetricsSink(cfg config.ObservabilityMetricsConfig, serviceName string, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.IsEnabled(),
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		Logger:     logger,
		GlobalTags: map[string]string{"service": serviceName},
	})
	if err != nil {
		return nil, fmt.Errorf("create statsd client: %w", err)
	}
	if logger != nil && client.Enabled() {
		logger.Info("statsd metrics enabled", "addr", cfg.StatsdAddress, "prefix", cfg.Prefix)
	}
	return client, nil
}
