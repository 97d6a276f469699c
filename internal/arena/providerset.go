// Package arena implements the core of the comparator: an ordered
// provider registry, a sequential response collector (with an explicit
// concurrent alternative), an anonymized judge that ranks the collected
// answers, a question generator, and an answer-similarity report.
package arena

import (
	"fmt"

	"github.com/ahrav/llm-arena/internal/domain"
	"github.com/ahrav/llm-arena/internal/ports"
)

// ProviderSet is an ordered registry of answer providers. Insertion
// order defines iteration order for collection and for judge competitor
// numbering. A set is built fresh each run and never persisted.
type ProviderSet struct {
	order     []string
	providers map[string]ports.AnswerProvider
}

// NewProviderSet creates an empty provider set.
func NewProviderSet() *ProviderSet {
	return &ProviderSet{providers: make(map[string]ports.AnswerProvider)}
}

// Register adds a provider under its own name. Registering a nil
// provider or a duplicate name is an error.
func (s *ProviderSet) Register(p ports.AnswerProvider) error {
	if p == nil {
		return fmt.Errorf("provider cannot be nil")
	}
	name := p.Name()
	if _, exists := s.providers[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	s.order = append(s.order, name)
	s.providers[name] = p
	return nil
}

// Names returns the provider keys in registration order.
func (s *ProviderSet) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Get returns the provider registered under name.
func (s *ProviderSet) Get(name string) (ports.AnswerProvider, bool) {
	p, ok := s.providers[name]
	return p, ok
}

// Len returns the number of registered providers.
func (s *ProviderSet) Len() int { return len(s.order) }

// CollectedResponses maps each registered provider key to an optional
// response: nil encodes "this provider failed or returned nothing".
// Iteration order matches the provider set the mapping was built from.
type CollectedResponses struct {
	order      []string
	byProvider map[string]*domain.Response
}

func newCollectedResponses(capacity int) *CollectedResponses {
	return &CollectedResponses{
		order:      make([]string, 0, capacity),
		byProvider: make(map[string]*domain.Response, capacity),
	}
}

func (c *CollectedResponses) put(provider string, resp *domain.Response) {
	if _, exists := c.byProvider[provider]; !exists {
		c.order = append(c.order, provider)
	}
	c.byProvider[provider] = resp
}

// Providers returns the provider keys in collection order.
func (c *CollectedResponses) Providers() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Get returns the response for a provider; a nil response with ok true
// means the provider was queried but produced nothing.
func (c *CollectedResponses) Get(provider string) (*domain.Response, bool) {
	resp, ok := c.byProvider[provider]
	return resp, ok
}

// Len returns the number of collected entries.
func (c *CollectedResponses) Len() int { return len(c.order) }
