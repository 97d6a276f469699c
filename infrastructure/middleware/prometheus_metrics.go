// Package middleware provides cross-cutting collaborators for the
// arena, currently a Prometheus-backed metrics collector for LLM
// traffic.
package middleware

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahrav/llm-arena/internal/ports"
)

// PrometheusMetrics implements ports.MetricsCollector on top of
// Prometheus, tracking request counts, latency, and token usage per
// provider and model.
type PrometheusMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tokensTotal     *prometheus.CounterVec
}

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates a collector and registers its metrics
// with the given registerer. Pass prometheus.DefaultRegisterer for the
// global registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	pm := &PrometheusMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of chat-completion requests by provider, model, and status.",
			},
			[]string{"provider", "model", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Chat-completion request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "model", "status"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Total tokens consumed across all chat-completion requests.",
			},
			[]string{"provider", "model", "token_type"},
		),
	}

	reg.MustRegister(pm.requestsTotal, pm.requestDuration, pm.tokensTotal)
	return pm
}

// RecordCounter implements ports.MetricsCollector.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "llm_requests_total":
		pm.requestsTotal.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Add(value)
	case "llm_tokens_total":
		pm.tokensTotal.WithLabelValues(
			labels["provider"], labels["model"], labels["token_type"],
		).Add(value)
	}
}

// RecordHistogram implements ports.MetricsCollector.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	if metric == "llm_request_duration_seconds" {
		pm.requestDuration.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Observe(value)
	}
}
