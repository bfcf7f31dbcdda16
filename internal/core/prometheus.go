package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports per-operation duration and outcome
// counters through a prometheus registry.
type PrometheusMetricsRecorder struct {
	durations *prometheus.CounterVec
	results   *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder builds a recorder and registers its
// collectors with reg. A nil registerer falls back to the default registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rec := &PrometheusMetricsRecorder{
		durations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viewcore_operation_duration_ms_total",
			Help: "Cumulative duration of store operations in milliseconds.",
		}, []string{"operation"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viewcore_operation_results_total",
			Help: "Count of store operation outcomes by status.",
		}, []string{"operation", "status"}),
	}
	if err := reg.Register(rec.durations); err != nil {
		return nil, err
	}
	if err := reg.Register(rec.results); err != nil {
		return nil, err
	}
	return rec, nil
}

// Observe records a service operation outcome.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation).Add(float64(duration) / float64(time.Millisecond))
	r.results.WithLabelValues(operation, status).Inc()
}
