package llm

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/llm-arena/internal/ports"
)

// metricsLLM records request latency, outcome, and token usage for each
// provider call.
type metricsLLM struct {
	next      CoreLLM
	provider  string
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that reports request metrics to
// the given collector under the given provider label.
func MetricsMiddleware(provider string, collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{next: next, provider: provider, collector: collector}
	}
}

func (m *metricsLLM) DoRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (string, int, int, error) {
	start := time.Now()
	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, messages, opts)
	m.record(start, tokensIn, tokensOut, err)
	return response, tokensIn, tokensOut, err
}

func (m *metricsLLM) DoRawRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (any, error) {
	start := time.Now()
	raw, err := m.next.DoRawRequest(ctx, messages, opts)
	m.record(start, 0, 0, err)
	return raw, err
}

func (m *metricsLLM) record(start time.Time, tokensIn, tokensOut int, err error) {
	if m.collector == nil {
		return
	}

	labels := map[string]string{
		"provider": m.provider,
		"model":    m.next.GetModel(),
		"status":   statusLabel(err),
	}

	m.collector.RecordHistogram("llm_request_duration_seconds", time.Since(start).Seconds(), labels)
	m.collector.RecordCounter("llm_requests_total", 1, labels)

	if err == nil {
		labels["token_type"] = "input"
		m.collector.RecordCounter("llm_tokens_total", float64(tokensIn), labels)
		labels["token_type"] = "output"
		m.collector.RecordCounter("llm_tokens_total", float64(tokensOut), labels)
	}
}

func statusLabel(err error) string {
	if err == nil {
		return "success"
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) && provErr.IsTimeout() {
		return "timeout"
	}
	return "error"
}

func (m *metricsLLM) GetModel() string  { return m.next.GetModel() }
func (m *metricsLLM) SetModel(s string) { m.next.SetModel(s) }
