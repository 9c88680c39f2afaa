package httpapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

// Metrics counts check runs served by probed.
type Metrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "probed_checks_total",
			Help: "Check runs by check name and resulting state.",
		}, []string{"check", "state"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "probed_check_duration_seconds",
			Help:    "Wall time of a check run including remote API calls.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"check"}),
	}
	reg.MustRegister(m.runs, m.duration)
	return m
}

func (m *Metrics) Observe(check string, state plugin.State, elapsed time.Duration) {
	m.runs.WithLabelValues(check, state.String()).Inc()
	m.duration.WithLabelValues(check).Observe(elapsed.Seconds())
}
