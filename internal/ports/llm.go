// Package ports defines the interfaces that cross layer boundaries:
// chat-completion clients, answer providers, and operational
// collaborators. Implementations live in infrastructure packages;
// application code in internal/arena depends only on these contracts.
package ports

import (
	"context"

	"github.com/ahrav/llm-arena/internal/domain"
)

// Role identifies the author of a chat message.
type Role string

// Standard chat roles shared by all backends.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one role-tagged entry in a chat exchange.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// ChatClient issues chat-completion requests against one backend model.
// Implementations handle provider-specific request formatting, response
// shape normalization, and error classification.
type ChatClient interface {
	// Ask sends the ordered message list and returns the first
	// message's text, trimmed of surrounding whitespace.
	// An empty message list is a caller defect and fails immediately;
	// backend failures (timeout, server error, empty content) return a
	// classified error the caller can inspect with errors.As.
	//
	// Common options include:
	//   - "temperature": float64
	//   - "max_tokens": int
	//   - "model": string (per-call model override)
	Ask(ctx context.Context, messages []ChatMessage, options map[string]any) (string, error)

	// AskRaw behaves like Ask but returns the unprocessed backend
	// response object instead of extracted text. The concrete type is
	// backend-specific.
	AskRaw(ctx context.Context, messages []ChatMessage, options map[string]any) (any, error)

	// GetModel returns the model identifier used by this client.
	GetModel() string
}

// AnswerProvider is the capability contract every competing backend
// satisfies: given a validated Question, produce a Response whose
// Question equals the input and whose Answer is non-empty.
// A provider that cannot produce an answer returns an error; the
// collector reduces that to "no response" rather than propagating.
type AnswerProvider interface {
	// Name returns the stable provider key used for registry order,
	// trace output, and judge competitor mapping.
	Name() string

	// GenerateAnswer asks the backend to answer the question.
	// The context carries the per-call timeout.
	GenerateAnswer(ctx context.Context, q domain.Question) (domain.Response, error)
}

// MetricsCollector records operational metrics for LLM traffic.
// Implementations integrate with observability backends such as
// Prometheus.
type MetricsCollector interface {
	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, e.g. latency.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
