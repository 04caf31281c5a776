package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
)

// AppHealthHandler answers an app's own liveness probe.
// GET|HEAD /health.
func AppHealthHandler(serviceName string, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		WriteJSON(w, http.StatusOK, health.NewAppHealth(serviceName, now()))
	}
}

// FleetSource yields the current fleet health records.
type FleetSource interface {
	Current(ctx context.Context) []health.Record
}

// FleetHealthHandler serves the aggregated fleet health as a JSON array.
// GET /health.
func FleetHealthHandler(src FleetSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := src.Current(r.Context())
		if records == nil {
			records = []health.Record{}
		}
		w.Header().Set("Cache-Control", "no-store")
		WriteJSON(w, http.StatusOK, records)
	}
}
