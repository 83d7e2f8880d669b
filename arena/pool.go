// Package arena implements bounded, typed allocation pools for the
// objects the pipeline churns through at packet rate: packets, byte
// buffers, frame buffers. It mirrors roc_core::HeapArena's leak
// accounting, adapted to Go's GC: instead of manual free, callers call
// Release to return an object to the pool and decrement the live count.
package arena

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrNoMem is returned by Allocate when the pool has reached its bound.
var ErrNoMem = fmt.Errorf("arena: pool exhausted")

// Pool is a bounded slab pool for values of type T. A zero Limit means
// unbounded. Pool is safe for concurrent use; the teacher's packet
// factories are shared across the network and pipeline goroutines, so
// allocation here is internally serialized.
type Pool[T any] struct {
	New   func() T
	Limit int

	mu            sync.Mutex
	live          int64
	panicOnLeak   atomic.Bool
	totalAllocs   int64
	totalReleases int64
}

// NewPool creates a pool whose values are produced by newFn. limit <= 0
// means unbounded.
func NewPool[T any](newFn func() T, limit int) *Pool[T] {
	return &Pool[T]{New: newFn, Limit: limit}
}

// EnablePanicOnLeak makes Close panic if any allocation is still
// outstanding. Intended for tests, mirroring HeapArena::enable_panic_on_leak.
func (p *Pool[T]) EnablePanicOnLeak() {
	p.panicOnLeak.Store(true)
}

// Allocate returns a new value, or ErrNoMem if the pool's Limit has been
// reached.
func (p *Pool[T]) Allocate() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var zero T
	if p.Limit > 0 && p.live >= int64(p.Limit) {
		return zero, ErrNoMem
	}
	p.live++
	p.totalAllocs++
	return p.New(), nil
}

// Release returns a value to the pool's accounting. It is a programming
// error to release more values than were allocated.
func (p *Pool[T]) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.live <= 0 {
		panic("arena: unpaired release")
	}
	p.live--
	p.totalReleases++
}

// NumAllocations returns the number of currently live allocations.
func (p *Pool[T]) NumAllocations() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Close checks for leaks; if EnablePanicOnLeak was called and allocations
// are outstanding, it panics.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	live := p.live
	panicOnLeak := p.panicOnLeak.Load()
	p.mu.Unlock()

	if live != 0 && panicOnLeak {
		panic(fmt.Sprintf("arena: detected leak(s): %d objects were not released", live))
	}
}
