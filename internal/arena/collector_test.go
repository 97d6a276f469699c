package arena

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/llm-arena/internal/domain"
)

func newTestSet(t *testing.T, providers ...*stubProvider) *ProviderSet {
	t.Helper()
	set := NewProviderSet()
	for _, p := range providers {
		require.NoError(t, set.Register(p))
	}
	return set
}

func TestCollectorCollect(t *testing.T) {
	set := newTestSet(t,
		&stubProvider{name: "openai", answer: "answer one"},
		&stubProvider{name: "groq", answer: "answer two"},
	)

	var out bytes.Buffer
	collected := NewCollector(&out).Collect(context.Background(), set, mustQuestion("q"))

	require.Equal(t, 2, collected.Len())
	assert.Equal(t, []string{"openai", "groq"}, collected.Providers())

	openaiResp, _ := collected.Get("openai")
	require.NotNil(t, openaiResp)
	assert.Equal(t, "answer one", openaiResp.Answer)

	trace := out.String()
	assert.Contains(t, trace, "Openai Response:")
	assert.Contains(t, trace, "Groq Response:")
	assert.Contains(t, trace, "answer one")
	assert.Less(t, strings.Index(trace, "answer one"), strings.Index(trace, "answer two"),
		"trace must follow registration order")
}

func TestCollectorCollect_FailureDoesNotAbort(t *testing.T) {
	set := newTestSet(t,
		&stubProvider{name: "openai", err: errors.New("boom")},
		&stubProvider{name: "groq", answer: "still here"},
	)

	var out bytes.Buffer
	collected := NewCollector(&out).Collect(context.Background(), set, mustQuestion("q"))

	require.Equal(t, 2, collected.Len(), "every provider gets an entry, even on failure")

	failed, ok := collected.Get("openai")
	require.True(t, ok)
	assert.Nil(t, failed)

	succeeded, _ := collected.Get("groq")
	require.NotNil(t, succeeded)
	assert.Equal(t, "still here", succeeded.Answer)

	assert.Contains(t, out.String(), "Error from provider 'openai': ")
}

func TestCollectorCollect_AllFail(t *testing.T) {
	set := newTestSet(t,
		&stubProvider{name: "openai", err: errors.New("down")},
		&stubProvider{name: "groq", err: errors.New("also down")},
	)

	collected := NewCollector(nil).Collect(context.Background(), set, mustQuestion("q"))

	assert.Equal(t, 2, collected.Len())
	for _, name := range collected.Providers() {
		resp, _ := collected.Get(name)
		assert.Nil(t, resp)
	}
}

func TestCollectorCollectParallel(t *testing.T) {
	// Completion order is reversed relative to registration order: the
	// first provider is the slowest. The mapping and trace must still
	// come out in registration order.
	slow := func(name, answer string, delay time.Duration) *stubProvider {
		return &stubProvider{
			name: name,
			generateFn: func(ctx context.Context, q domain.Question) (domain.Response, error) {
				time.Sleep(delay)
				return domain.NewResponse(name, q, answer)
			},
		}
	}

	set := newTestSet(t,
		slow("openai", "slowest", 60*time.Millisecond),
		slow("groq", "middle", 30*time.Millisecond),
		slow("anthropic", "fastest", 0),
	)

	var out bytes.Buffer
	collected := NewCollector(&out).CollectParallel(context.Background(), set, mustQuestion("q"), 3)

	require.Equal(t, 3, collected.Len())
	assert.Equal(t, []string{"openai", "groq", "anthropic"}, collected.Providers())

	trace := out.String()
	assert.Less(t, strings.Index(trace, "slowest"), strings.Index(trace, "middle"))
	assert.Less(t, strings.Index(trace, "middle"), strings.Index(trace, "fastest"))
}

func TestCollectorCollectParallel_FailuresMatchSequential(t *testing.T) {
	set := newTestSet(t,
		&stubProvider{name: "openai", answer: "fine"},
		&stubProvider{name: "groq", err: errors.New("boom")},
		&stubProvider{name: "anthropic", answer: "also fine"},
	)

	collected := NewCollector(nil).CollectParallel(context.Background(), set, mustQuestion("q"), 0)

	require.Equal(t, 3, collected.Len())
	assert.Equal(t, []string{"openai", "groq", "anthropic"}, collected.Providers())

	failed, _ := collected.Get("groq")
	assert.Nil(t, failed)
	ok, _ := collected.Get("anthropic")
	require.NotNil(t, ok)
	assert.Equal(t, "also fine", ok.Answer)
}

func TestCollectorCollectParallel_RespectsConcurrencyLimit(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	tracked := func(name string) *stubProvider {
		return &stubProvider{
			name: name,
			generateFn: func(ctx context.Context, q domain.Question) (domain.Response, error) {
				mu.Lock()
				inFlight++
				if inFlight > maxInFlight {
					maxInFlight = inFlight
				}
				mu.Unlock()

				time.Sleep(10 * time.Millisecond)

				mu.Lock()
				inFlight--
				mu.Unlock()
				return domain.NewResponse(name, q, "ok")
			},
		}
	}

	set := newTestSet(t, tracked("a"), tracked("b"), tracked("c"), tracked("d"))

	NewCollector(nil).CollectParallel(context.Background(), set, mustQuestion("q"), 2)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxInFlight, 2)
}
