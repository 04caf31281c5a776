// Package health holds the fleet liveness types shared by probes, the aggregator, and HTTP handlers.
package health

import "time"

// Status is the reachability of one fleet application.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// StatusHealthy is the value every app reports from its own /health endpoint.
const StatusHealthy = "healthy"

// Endpoint is a named liveness URL.
type Endpoint struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Record is a point-in-time probe result. Latency is nil when the app is offline.
type Record struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Status    Status `json:"status"`
	LatencyMS *int64 `json:"latency"`
}

// Online builds a Record for a successful probe.
func Online(ep Endpoint, elapsed time.Duration) Record {
	ms := elapsed.Milliseconds()
	return Record{Name: ep.Name, URL: ep.URL, Status: StatusOnline, LatencyMS: &ms}
}

// Offline builds a Record for a failed probe; the cause is deliberately not carried.
func Offline(ep Endpoint) Record {
	return Record{Name: ep.Name, URL: ep.URL, Status: StatusOffline}
}

// AppHealth is the body each fleet application returns from GET /health.
type AppHealth struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// NewAppHealth reports the service as healthy at now, formatted as RFC 3339 UTC.
func NewAppHealth(service string, now time.Time) AppHealth {
	return AppHealth{
		Status:    StatusHealthy,
		Service:   service,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
