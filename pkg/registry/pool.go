// Package registry queries a remote NuGet v3 flat-container index for the
// known versions of a package id, under a bounded concurrency pool and with
// a short-lived response cache.
package registry

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of simultaneous in-flight index queries.
//
// The pool is an explicit value injected into the Client rather than
// process-wide state, so independent clients (and tests) get independent
// pools. Acquire blocks until a permit frees up and honors context
// cancellation; Release must be called on every exit path.
type Pool struct {
	sem      *semaphore.Weighted
	capacity int
}

// NewPool creates a pool with the given permit capacity.
//
// Parameters:
//   - capacity: Maximum simultaneous in-flight requests; values below 1 are raised to 1
//
// Returns:
//   - *Pool: The initialized pool
func NewPool(capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(capacity)), capacity: capacity}
}

// Capacity returns the pool's permit capacity.
//
// Returns:
//   - int: The configured capacity
func (p *Pool) Capacity() int {
	return p.capacity
}

// Acquire blocks until a permit is available or the context is cancelled.
//
// Parameters:
//   - ctx: Cancellation signal; a cancelled context aborts the wait
//
// Returns:
//   - error: The context's error when cancelled before a permit was obtained;
//     returns nil once a permit is held
func (p *Pool) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

// Release returns a permit to the pool.
func (p *Pool) Release() {
	p.sem.Release(1)
}
