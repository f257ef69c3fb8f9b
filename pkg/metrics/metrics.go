// Package metrics holds the prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collectors
type Metrics struct {
	scans       prometheus.Counter
	hodActions  *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "scans_recorded_total",
			Help:      "Attendance records appended by confirmed scans.",
		}),
		hodActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "hod_actions_total",
			Help:      "HOD actions applied to attendance records, by resulting status.",
		}, []string{"action"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "attendance",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.scans, m.hodActions, m.httpLatency)
	return m
}

// ScanRecorded counts one appended scan
func (m *Metrics) ScanRecorded() {
	if m == nil {
		return
	}
	m.scans.Inc()
}

// HodActionApplied counts one applied action; unrecognized actions use "ignored"
func (m *Metrics) HodActionApplied(action string) {
	if m == nil {
		return
	}
	m.hodActions.WithLabelValues(action).Inc()
}

// ObserveHTTP records request latency
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
