package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Endpoint is one named liveness URL.
type Endpoint struct {
	Name string
	URL  string
}

// ParseEndpoints parses "name=url;name=url". Order is preserved.
func ParseEndpoints(raw string) ([]Endpoint, error) {
	var out []Endpoint
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, rawURL, ok := strings.Cut(part, "=")
		name, rawURL = strings.TrimSpace(name), strings.TrimSpace(rawURL)
		if !ok || name == "" || rawURL == "" {
			return nil, fmt.Errorf("invalid endpoint %q (want name=url)", part)
		}
		if err := validateAbsoluteURL("endpoint "+name, rawURL); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate endpoint name %q", name)
		}
		seen[name] = true
		out = append(out, Endpoint{Name: name, URL: rawURL})
	}
	return out, nil
}

// FleetConfig configures the health aggregator.
type FleetConfig struct {
	RawEndpoints string        `env:"AGG_ENDPOINTS"`
	ProbeTimeout time.Duration `env:"AGG_PROBE_TIMEOUT" envDefault:"3s"`
	Schedule     string        `env:"AGG_SCHEDULE"      envDefault:"@every 30s"`

	endpoints []Endpoint
}

// Endpoints returns RawEndpoints as parsed by Validate.
func (c FleetConfig) Endpoints() []Endpoint {
	return append([]Endpoint(nil), c.endpoints...)
}

// Sanitize applies defaults.
func (c *FleetConfig) Sanitize() {
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 3 * time.Second
	}
	if c.Schedule = strings.TrimSpace(c.Schedule); c.Schedule == "" {
		c.Schedule = "@every 30s"
	}
}

// Validate parses RawEndpoints and requires at least one endpoint.
func (c *FleetConfig) Validate() error {
	eps, err := ParseEndpoints(c.RawEndpoints)
	if err != nil {
		return fmt.Errorf("AGG_ENDPOINTS: %w", err)
	}
	c.endpoints = eps
	if len(c.endpoints) == 0 {
		return errors.New("AGG_ENDPOINTS must list at least one name=url pair")
	}
	return nil
}

// AlertsConfig configures fleet status-change alerts. Each sink is enabled by its credential.
type AlertsConfig struct {
	SlackWebhookURL     string        `env:"ALERT_SLACK_WEBHOOK_URL"`
	SlackChannel        string        `env:"ALERT_SLACK_CHANNEL"`
	SlackUsername       string        `env:"ALERT_SLACK_USERNAME"       envDefault:"fleet-health"`
	PagerDutyRoutingKey string        `env:"ALERT_PAGERDUTY_ROUTING_KEY"`
	RetryLimit          int           `env:"ALERT_RETRY_LIMIT"          envDefault:"2"`
	Timeout             time.Duration `env:"ALERT_TIMEOUT"              envDefault:"5s"`
}

// Sanitize trims credentials and clamps retry and timeout values.
func (c *AlertsConfig) Sanitize() {
	c.SlackWebhookURL = strings.TrimSpace(c.SlackWebhookURL)
	c.SlackChannel = strings.TrimSpace(c.SlackChannel)
	c.PagerDutyRoutingKey = strings.TrimSpace(c.PagerDutyRoutingKey)
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}

// Validate checks the Slack webhook URL when set.
func (c *AlertsConfig) Validate() error {
	if c.SlackWebhookURL == "" {
		return nil
	}
	return validateAbsoluteURL("ALERT_SLACK_WEBHOOK_URL", c.SlackWebhookURL)
}

// Enabled reports whether any alert sink is configured.
func (c *AlertsConfig) Enabled() bool {
	return c.SlackWebhookURL != "" || c.PagerDutyRoutingKey != ""
}
