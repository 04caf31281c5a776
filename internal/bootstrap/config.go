package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// validatable is the shape shared by the per-binary config structs.
type validatable[T any] interface {
	*T
	Sanitize()
	Validate() error
}

// LoadBrokerConfig loads and validates cmd/broker configuration.
func LoadBrokerConfig() (config.BrokerConfig, error) {
	return loadConfig[config.BrokerConfig]()
}

// LoadGateConfig loads and validates cmd/appgate configuration.
func LoadGateConfig() (config.GateConfig, error) {
	return loadConfig[config.GateConfig]()
}

// LoadAggregatorConfig loads and validates cmd/healthagg configuration.
func LoadAggregatorConfig() (config.AggregatorConfig, error) {
	return loadConfig[config.AggregatorConfig]()
}

func loadConfig[T any, P validatable[T]]() (T, error) {
	var cfg T

	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return cfg, fmt.Errorf("load .env file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	P(&cfg).Sanitize()
	if err := P(&cfg).Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
