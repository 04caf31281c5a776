package pagerduty

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when routing key missing")
	}
}

func TestBuildEventTrigger(t *testing.T) {
	client, err := NewClient(Config{RoutingKey: "key", Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	event := client.buildEvent(notify.StatusChange{
		App:        "mail",
		URL:        "http://mail/health",
		From:       health.StatusOnline,
		To:         health.StatusOffline,
		ErrorClass: "probe_connection",
	})

	if event["event_action"] != "trigger" {
		t.Fatalf("event_action = %v, want trigger", event["event_action"])
	}
	if event["dedup_key"] != "fleet:mail" {
		t.Fatalf("dedup_key = %v, want fleet:mail", event["dedup_key"])
	}
	payload, ok := event["payload"].(map[string]any)
	if !ok {
		t.Fatalf("expected payload section")
	}
	if payload["severity"] != notify.SeverityCritical {
		t.Fatalf("expected critical severity, got %v", payload["severity"])
	}
	if payload["source"] != "healthagg" || payload["component"] != "fleet" {
		t.Fatalf("unexpected defaults: source=%v component=%v", payload["source"], payload["component"])
	}
	custom, ok := payload["custom_details"].(map[string]any)
	if !ok {
		t.Fatalf("expected custom details")
	}
	for _, key := range []string{"app", "url", "previous", "error_class"} {
		if _, exists := custom[key]; !exists {
			t.Fatalf("expected key %s in custom details", key)
		}
	}
}

func TestSendStatusChangeResolvesOnRecovery(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewClient(Config{RoutingKey: "key", Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	change := notify.StatusChange{App: "mail", From: health.StatusOffline, To: health.StatusOnline}
	if err := client.SendStatusChange(context.Background(), change); err != nil {
		t.Fatalf("SendStatusChange: %v", err)
	}
	if got["event_action"] != "resolve" || got["dedup_key"] != "fleet:mail" {
		t.Fatalf("unexpected resolve event: %v", got)
	}
	if _, ok := got["payload"]; ok {
		t.Fatalf("resolve event should not carry a payload")
	}
}
