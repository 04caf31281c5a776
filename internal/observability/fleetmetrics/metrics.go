// Package fleetmetrics exposes fleet liveness as Prometheus metrics.
package fleetmetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
	obserrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/errors"
)

// Metrics holds the aggregator's Prometheus collectors.
type Metrics struct {
	AppUp          *prometheus.GaugeVec
	ProbeLatency   *prometheus.HistogramVec
	ProbeFailures  *prometheus.CounterVec
	CyclesTotal    prometheus.Counter
	CycleDuration  prometheus.Histogram
	LastCycleEpoch prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AppUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fleet_app_up",
				Help: "1 if the app answered its last liveness probe, 0 otherwise",
			},
			[]string{"app"},
		),
		ProbeLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fleet_probe_latency_seconds",
				Help:    "Latency of successful liveness probes",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 3},
			},
			[]string{"app"},
		),
		ProbeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleet_probe_failures_total",
				Help: "Failed liveness probes by error class",
			},
			[]string{"app", "class"},
		),
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_probe_cycles_total",
			Help: "Completed aggregation cycles",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_probe_cycle_duration_seconds",
			Help:    "Wall time of one aggregation cycle",
			Buckets: prometheus.DefBuckets,
		}),
		LastCycleEpoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_probe_last_cycle_timestamp_seconds",
			Help: "Unix time the last aggregation cycle finished",
		}),
	}
	reg.MustRegister(m.AppUp, m.ProbeLatency, m.ProbeFailures, m.CyclesTotal, m.CycleDuration, m.LastCycleEpoch)
	return m
}

// ObserveProbe records one probe outcome.
func (m *Metrics) ObserveProbe(rec health.Record, err error) {
	if m == nil {
		return
	}
	if rec.Status == health.StatusOnline {
		m.AppUp.WithLabelValues(rec.Name).Set(1)
		if rec.LatencyMS != nil {
			m.ProbeLatency.WithLabelValues(rec.Name).Observe(float64(*rec.LatencyMS) / 1000)
		}
		return
	}
	m.AppUp.WithLabelValues(rec.Name).Set(0)
	class := obserrors.Classify(err)
	if class == "" {
		class = "unknown"
	}
	m.ProbeFailures.WithLabelValues(rec.Name, class).Inc()
}

// ObserveCycle records a completed aggregation cycle.
func (m *Metrics) ObserveCycle(elapsed time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.CyclesTotal.Inc()
	m.CycleDuration.Observe(elapsed.Seconds())
	m.LastCycleEpoch.Set(float64(finished.Unix()))
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
