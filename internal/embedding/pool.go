package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

var _ Embedder = &Pool{}

// Pool runs embeddings on worker goroutines, at most size at a time, so
// CPU-bound embedding never blocks the caller past its context.
type Pool struct {
	embedder Embedder
	sem      *semaphore.Weighted
}

func NewPool(embedder Embedder, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		embedder: embedder,
		sem:      semaphore.NewWeighted(int64(size)),
	}
}

func (p *Pool) Dimensions() int {
	return p.embedder.Dimensions()
}

func (p *Pool) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire embedding worker: %w", err)
	}

	type result struct {
		vec []float32
		err error
	}

	done := make(chan result, 1)
	go func() {
		defer p.sem.Release(1)
		vec, err := p.embedder.Embed(ctx, text)
		done <- result{vec: vec, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.vec, r.err
	}
}
