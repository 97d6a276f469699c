package llm

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/llm-arena/internal/ports"
)

// fakeCollector records every metric call for inspection.
type fakeCollector struct {
	mu         sync.Mutex
	counters   map[string]float64
	histograms map[string]int
	labels     map[string]map[string]string
}

func newFakeCollector() *fakeCollector {
	return &fakeCollector{
		counters:   make(map[string]float64),
		histograms: make(map[string]int),
		labels:     make(map[string]map[string]string),
	}
}

func (f *fakeCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := metric + "/" + labels["status"] + "/" + labels["token_type"]
	f.counters[key] += value
	f.labels[metric] = labels
}

func (f *fakeCollector) RecordHistogram(metric string, value float64, labels map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms[metric]++
	f.labels[metric] = labels
}

var _ ports.MetricsCollector = (*fakeCollector)(nil)

func TestMetricsMiddleware_Success(t *testing.T) {
	collector := newFakeCollector()
	core := &mockCoreLLM{response: "ok", tokensIn: 10, tokensOut: 20, model: "gpt-4o"}

	wrapped := MetricsMiddleware("openai", collector)(core)
	_, _, _, err := wrapped.DoRequest(context.Background(), []ports.ChatMessage{ports.UserMessage("q")}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, collector.counters["llm_requests_total/success/"])
	assert.Equal(t, 10.0, collector.counters["llm_tokens_total/success/input"])
	assert.Equal(t, 20.0, collector.counters["llm_tokens_total/success/output"])
	assert.Equal(t, 1, collector.histograms["llm_request_duration_seconds"])
	assert.Equal(t, "openai", collector.labels["llm_requests_total"]["provider"])
	assert.Equal(t, "gpt-4o", collector.labels["llm_requests_total"]["model"])
}

func TestMetricsMiddleware_Timeout(t *testing.T) {
	collector := newFakeCollector()
	core := &mockCoreLLM{
		err:   NewProviderError("openai", ErrorTypeTimeout, 0, "request timed out", context.DeadlineExceeded),
		model: "gpt-4o",
	}

	wrapped := MetricsMiddleware("openai", collector)(core)
	_, _, _, err := wrapped.DoRequest(context.Background(), []ports.ChatMessage{ports.UserMessage("q")}, nil)
	require.Error(t, err)

	assert.Equal(t, 1.0, collector.counters["llm_requests_total/timeout/"])
	assert.Zero(t, collector.counters["llm_tokens_total/timeout/input"], "failed requests record no tokens")
}

func TestMetricsMiddleware_Error(t *testing.T) {
	collector := newFakeCollector()
	core := &mockCoreLLM{
		err:   NewProviderError("groq", ErrorTypeServerError, 500, "boom", nil),
		model: "m",
	}

	wrapped := MetricsMiddleware("groq", collector)(core)
	_, _, _, err := wrapped.DoRequest(context.Background(), []ports.ChatMessage{ports.UserMessage("q")}, nil)
	require.Error(t, err)

	assert.Equal(t, 1.0, collector.counters["llm_requests_total/error/"])
}
