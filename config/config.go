package config

import (
	"errors"
	"os"
	"strings"
)

// Configuration is loaded from environment variables using
// github.com/caarlos0/env. Each binary has one top-level struct composed
// from the domain files in this package:
//   - auth.go: identity provider configuration (broker)
//   - session.go: session token and cookie policy (broker, appgate)
//   - gate.go: guard and app-local session (appgate)
//   - aggregator.go: fleet endpoints, probe schedule, and alerts (healthagg)
//   - redis.go: pending sign-in storage (broker)
//   - http.go, observability.go: shared server and metrics settings

// BrokerConfig configures cmd/broker.
type BrokerConfig struct {
	// IsDev relaxes defaults for local development (cookie Secure flag, mock auth).
	IsDev       bool   `env:"DEV"          envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"broker"`

	Auth    AuthConfig
	Session SessionConfig `envPrefix:"SESSION_"`

	// AllowedCallbackHosts are absolute callback hosts accepted besides the cookie domain.
	AllowedCallbackHosts []string `env:"BROKER_ALLOWED_CALLBACK_HOSTS" envSeparator:","`
	ErrorPath            string   `env:"BROKER_ERROR_PATH"             envDefault:"/error"`
	// OmitProviderTokens keeps provider tokens out of the session cookie.
	OmitProviderTokens bool `env:"BROKER_OMIT_PROVIDER_TOKENS" envDefault:"false"`

	PendingStore PendingStoreConfig
	Redis        RedisConfig `envPrefix:"REDIS_"`

	HTTP          HTTPConfig
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *BrokerConfig) Sanitize() {
	c.IsDev = detectDevMode(c.IsDev)
	c.ServiceName = strings.TrimSpace(c.ServiceName)
	c.Session.Sanitize(c.IsDev)
	c.PendingStore.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
	c.AllowedCallbackHosts = trimAll(c.AllowedCallbackHosts)
	if !strings.HasPrefix(c.ErrorPath, "/") {
		c.ErrorPath = "/error"
	}
}

// Validate reports missing or unsafe values.
func (c *BrokerConfig) Validate() error {
	return errors.Join(
		c.Auth.Validate(c.IsDev),
		c.Session.Validate(),
		c.PendingStore.Validate(),
	)
}

// GateConfig configures cmd/appgate.
type GateConfig struct {
	IsDev       bool   `env:"DEV"          envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME,required"`

	// UpstreamURL is the fronted application.
	UpstreamURL string `env:"GATE_UPSTREAM_URL,required"`

	Guard     GuardConfig
	Session   SessionConfig   `envPrefix:"SESSION_"`
	LocalAuth LocalAuthConfig `envPrefix:"LOCAL_AUTH_"`

	HTTP          HTTPConfig
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *GateConfig) Sanitize() {
	c.IsDev = detectDevMode(c.IsDev)
	c.ServiceName = strings.TrimSpace(c.ServiceName)
	c.UpstreamURL = strings.TrimSpace(c.UpstreamURL)
	c.Guard.Sanitize()
	c.Session.Sanitize(c.IsDev)
	c.LocalAuth.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports missing or unsafe values. The session secret is only
// needed when the guard decodes tokens.
func (c *GateConfig) Validate() error {
	errs := []error{
		validateAbsoluteURL("GATE_UPSTREAM_URL", c.UpstreamURL),
		c.Guard.Validate(),
		c.Session.ValidateCookie(),
		c.LocalAuth.Validate(),
	}
	if c.Guard.Verify {
		errs = append(errs, c.Session.Validate())
	}
	return errors.Join(errs...)
}

// AggregatorConfig configures cmd/healthagg.
type AggregatorConfig struct {
	IsDev       bool   `env:"DEV"          envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"healthagg"`

	Fleet  FleetConfig
	Alerts AlertsConfig
	HTTP   HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *AggregatorConfig) Sanitize() {
	c.IsDev = detectDevMode(c.IsDev)
	c.Fleet.Sanitize()
	c.Alerts.Sanitize()
	c.HTTP.Sanitize()
}

// Validate reports missing or unsafe values.
func (c *AggregatorConfig) Validate() error {
	return errors.Join(c.Fleet.Validate(), c.Alerts.Validate())
}

// detectDevMode checks NODE_ENV as a fallback to DEV (common in frontend tooling).
func detectDevMode(isDev bool) bool {
	if isDev {
		return true
	}
	nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
	return nodeEnv == "development" || nodeEnv == "dev"
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
