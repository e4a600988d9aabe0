// Package monitoring provides Prometheus metrics for the service.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Filesystem operation metrics
	OpsTotal    *prometheus.CounterVec
	OpsDuration *prometheus.HistogramVec
	OpsErrors   *prometheus.CounterVec

	registry  *prometheus.Registry
	startTime time.Time
}

// NewMetrics creates a metrics collector registered on reg. A nil
// registry falls back to a private one, which keeps parallel tests from
// tripping over duplicate registration.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fskit_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fskit_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		OpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fskit_fs_operations_total",
				Help: "Total number of filesystem operations",
			},
			[]string{"op", "status"},
		),
		OpsDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fskit_fs_operation_duration_seconds",
				Help:    "Filesystem operation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"op"},
		),
		OpsErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fskit_fs_operation_errors_total",
				Help: "Total number of failed filesystem operations by kind",
			},
			[]string{"op", "kind"},
		),
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOp records a filesystem operation outcome.
func (m *Metrics) RecordOp(op, status string, duration time.Duration) {
	m.OpsTotal.WithLabelValues(op, status).Inc()
	m.OpsDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordOpError records a failed filesystem operation by error kind.
func (m *Metrics) RecordOpError(op, kind string) {
	m.OpsErrors.WithLabelValues(op, kind).Inc()
}

// Registry returns the underlying Prometheus registry for exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Uptime returns time since the collector was created.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
