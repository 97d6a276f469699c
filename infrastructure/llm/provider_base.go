package llm

import (
	"sync"

	"github.com/ahrav/llm-arena/internal/ports"
)

// BaseProvider supplies the thread-safe model bookkeeping shared by all
// provider implementations.
type BaseProvider struct {
	mu    sync.RWMutex
	model string
}

// GetModel returns the configured model name. Safe for concurrent use.
func (b *BaseProvider) GetModel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// SetModel updates the model name. Safe for concurrent use.
func (b *BaseProvider) SetModel(model string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
}

// EstimateTokens approximates a token count from text length, roughly
// four characters per token for English text. Providers fall back to
// this when the backend omits usage data.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// tokenCount prefers the backend-reported count and falls back to
// estimation from the text.
func tokenCount(actual int, text string) int {
	if actual > 0 {
		return actual
	}
	return EstimateTokens(text)
}

// validateMessages rejects an empty exchange. Providers call this before
// touching the network so a programming error fails fast.
func validateMessages(messages []ports.ChatMessage) error {
	if len(messages) == 0 {
		return ErrNoMessages
	}
	return nil
}
