package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the client-side collectors. Each instance owns its registry
// so tests can create as many as they like.
type Metrics struct {
	Registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	lastSync    prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrms_client",
			Name:      "requests_total",
			Help:      "Backend calls issued by the client, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrms_client",
			Name:      "timer_transitions_total",
			Help:      "Attendance timer state changes.",
		}, []string{"from", "to"}),
		lastSync: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hrms_client",
			Name:      "last_sync_timestamp_seconds",
			Help:      "Unix timestamp of the most recent successful today-status fetch.",
		}),
	}
	m.Registry.MustRegister(m.requests, m.transitions, m.lastSync)
	return m
}

// RecordRequest counts one backend call.
func (m *Metrics) RecordRequest(operation, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
}

// RecordTransition counts one timer state change.
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// RecordSync updates the sync watermark gauge.
func (m *Metrics) RecordSync(ts time.Time) {
	if m == nil || ts.IsZero() {
		return
	}
	m.lastSync.Set(float64(ts.Unix()))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
