// Package pagerduty opens and resolves PagerDuty incidents for fleet outages.
package pagerduty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/notify"
)

// APIEndpoint is the PagerDuty Events API v2 ingest URL.
const APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

// Config captures runtime configuration for the PagerDuty sink.
type Config struct {
	RoutingKey string
	Source     string
	Component  string
	// Endpoint overrides APIEndpoint.
	Endpoint   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client publishes events via PagerDuty's Events API v2. An outage triggers an
// incident keyed by app; the matching recovery resolves it.
type Client struct {
	routingKey string
	source     string
	component  string
	endpoint   string
	retryLimit int
	client     *http.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient constructs a PagerDuty events client from config. Callers must provide a routing key.
func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.RoutingKey)
	if key == "" {
		return nil, errors.New("pagerduty routing key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		routingKey: key,
		source:     fallbackString(strings.TrimSpace(cfg.Source), "healthagg"),
		component:  fallbackString(strings.TrimSpace(cfg.Component), "fleet"),
		endpoint:   fallbackString(strings.TrimSpace(cfg.Endpoint), APIEndpoint),
		retryLimit: max(cfg.RetryLimit, 0),
		client:     hc,
	}, nil
}

// SendStatusChange triggers or resolves the app's incident.
func (c *Client) SendStatusChange(ctx context.Context, change notify.StatusChange) error {
	body, err := json.Marshal(c.buildEvent(change))
	if err != nil {
		return fmt.Errorf("encode pagerduty payload: %w", err)
	}
	return notify.Deliver(ctx, c.retryLimit, func(ctx context.Context) error {
		return notify.PostJSON(ctx, c.client, c.endpoint, "pagerduty api", body)
	})
}

func (c *Client) buildEvent(change notify.StatusChange) map[string]any {
	app := fallbackString(change.App, "unknown")
	event := map[string]any{
		"routing_key":  c.routingKey,
		"event_action": "trigger",
		"dedup_key":    "fleet:" + app,
	}
	if change.Recovered() {
		// resolve events only need the dedup key
		event["event_action"] = "resolve"
		return event
	}

	occurredAt := change.OccurredAt.UTC()
	if change.OccurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	event["payload"] = map[string]any{
		"summary":   fmt.Sprintf("%s is offline", app),
		"severity":  change.Severity(),
		"source":    c.source,
		"component": c.component,
		"timestamp": occurredAt.Format(time.RFC3339),
		"custom_details": map[string]any{
			"app":         app,
			"url":         change.URL,
			"previous":    string(change.From),
			"error_class": change.ErrorClass,
		},
	}
	return event
}

func fallbackString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
