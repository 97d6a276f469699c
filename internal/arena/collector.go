package arena

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/llm-arena/internal/domain"
)

// DefaultCollectConcurrency bounds the fan-out of CollectParallel.
const DefaultCollectConcurrency = 5

// Collector queries every provider in a set with the same question and
// records each outcome. A single provider's failure never aborts
// collection of the rest; it is reduced to a nil entry plus a
// diagnostic line.
type Collector struct {
	out io.Writer
}

// NewCollector creates a collector writing its trace to out.
// A nil writer discards the trace.
func NewCollector(out io.Writer) *Collector {
	if out == nil {
		out = io.Discard
	}
	return &Collector{out: out}
}

// Collect invokes every provider sequentially in registration order.
// The returned mapping has exactly one entry per registered provider;
// a failed provider maps to nil. Trace lines appear in registry order
// because invocation is sequential.
func (c *Collector) Collect(ctx context.Context, set *ProviderSet, q domain.Question) *CollectedResponses {
	collected := newCollectedResponses(set.Len())

	for _, name := range set.Names() {
		provider, _ := set.Get(name)
		resp, err := provider.GenerateAnswer(ctx, q)
		c.trace(name, resp, err, collected)
	}

	return collected
}

// CollectParallel fans out all provider calls concurrently with a
// bounded join, then emits the trace resequenced to registration order.
// The resulting mapping is identical to Collect's; only wall-clock
// behavior differs. This is the documented alternative to the default
// sequential collection.
func (c *Collector) CollectParallel(ctx context.Context, set *ProviderSet, q domain.Question, maxConcurrency int) *CollectedResponses {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultCollectConcurrency
	}

	names := set.Names()
	type outcome struct {
		resp domain.Response
		err  error
	}
	outcomes := make([]outcome, len(names))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, name := range names {
		provider, _ := set.Get(name)
		g.Go(func() error {
			resp, err := provider.GenerateAnswer(gctx, q)
			mu.Lock()
			outcomes[i] = outcome{resp: resp, err: err}
			mu.Unlock()
			// Failures are per-provider outcomes, never group errors.
			return nil
		})
	}
	_ = g.Wait()

	collected := newCollectedResponses(len(names))
	for i, name := range names {
		c.trace(name, outcomes[i].resp, outcomes[i].err, collected)
	}
	return collected
}

func (c *Collector) trace(name string, resp domain.Response, err error, collected *CollectedResponses) {
	if err != nil {
		fmt.Fprintf(c.out, "Error from provider '%s': %v\n", name, err)
		collected.put(name, nil)
		return
	}

	fmt.Fprintf(c.out, "\n%s Response:\n", titleCase(name))
	fmt.Fprintln(c.out, strings.Repeat("-", 40))
	fmt.Fprintln(c.out, resp.Answer)
	fmt.Fprintln(c.out, strings.Repeat("-", 40))
	collected.put(name, &resp)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
