package matcher

import (
	"context"
	"runtime"
	"sync"

	"github.com/larserikfagernaes/spendmatch/internal/model"
)

// Pool scores batches of transactions concurrently. Scoring is
// CPU-bound and read-only against the profile set, so workers share
// the Matcher without locking; each worker writes to its own index of
// the results slice, which keeps output order identical to input
// order.
type Pool struct {
	matcher *Matcher
	workers int

	mu     sync.Mutex
	onEach func(model.MatchResult)
}

// NewPool creates a scoring pool. Workers below 1 defaults to the
// number of CPUs.
func NewPool(m *Matcher, workers int) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Pool{matcher: m, workers: workers}
}

// OnEach registers a callback invoked once per completed transaction,
// serialized across workers. Used for progress reporting.
func (p *Pool) OnEach(fn func(model.MatchResult)) {
	p.onEach = fn
}

// Run matches every transaction and returns one result per input, in
// input order. Returns the context error if cancelled; results are
// discarded in that case.
func (p *Pool) Run(ctx context.Context, txns []model.Transaction) ([]model.MatchResult, error) {
	results := make([]model.MatchResult, len(txns))
	jobs := make(chan int)

	workers := p.workers
	if workers > len(txns) {
		workers = len(txns)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := p.matcher.Match(txns[i].ID, txns[i].Description)
				results[i] = r
				p.notify(r)
			}
		}()
	}

	var cancelled bool
feed:
	for i := range txns {
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled {
		return nil, ctx.Err()
	}
	return results, nil
}

func (p *Pool) notify(r model.MatchResult) {
	if p.onEach == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEach(r)
}
