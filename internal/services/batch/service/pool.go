package service

import (
	"context"
	"sync"
	"time"
)

// Pool runs detached slices keyed by session id, at most one per key.
// Work is tracked explicitly: slices run on the pool's own context, not the
// triggering request's, so a request ending cannot orphan a half-done slice
type Pool struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup

	base   context.Context
	cancel context.CancelFunc
}

// NewPool constructs an empty pool
func NewPool() *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		running: make(map[string]struct{}),
		base:    ctx,
		cancel:  cancel,
	}
}

// TryAcquire reserves key, reports false when a slice already holds it
func (p *Pool) TryAcquire(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.running[key]; busy {
		return false
	}
	p.running[key] = struct{}{}
	return true
}

// Release frees key without running anything, for bail-out paths between
// acquire and go
func (p *Pool) Release(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.running, key)
}

// Running reports whether a slice currently holds key
func (p *Pool) Running(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, busy := p.running[key]
	return busy
}

// Go runs fn detached under an already-acquired key and releases the key
// when fn returns
func (p *Pool) Go(key string, fn func(ctx context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.Release(key)
		fn(p.base)
	}()
}

// Shutdown cancels the pool context and waits for in-flight slices,
// bounded by ctx
func (p *Pool) Shutdown(ctx context.Context) error {
	p.cancel()
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every in-flight slice finishes, test helper mostly
func (p *Pool) Wait() { p.wg.Wait() }

// Drain waits up to d for in-flight slices without canceling them
func (p *Pool) Drain(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
