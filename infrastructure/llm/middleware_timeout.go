package llm

import (
	"context"
	"time"

	"github.com/ahrav/llm-arena/internal/ports"
)

// timeoutLLM bounds every request with a context deadline so no
// provider call can hang indefinitely. Expiry surfaces as an
// ErrorTypeTimeout ProviderError through the provider's classifier.
type timeoutLLM struct {
	next    CoreLLM
	timeout time.Duration
}

// TimeoutMiddleware creates middleware that enforces a per-request
// deadline. An expired deadline is treated like any other backend
// failure by the collector.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &timeoutLLM{next: next, timeout: timeout}
	}
}

func (t *timeoutLLM) DoRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (string, int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DoRequest(ctx, messages, opts)
}

func (t *timeoutLLM) DoRawRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DoRawRequest(ctx, messages, opts)
}

func (t *timeoutLLM) GetModel() string  { return t.next.GetModel() }
func (t *timeoutLLM) SetModel(m string) { t.next.SetModel(m) }
