package packet

import (
	"fmt"

	"github.com/rocstream/roc-go/arena"
)

// Factory produces reference-counted Packets from a bounded arena pool.
// It is shared across the network goroutine (producing) and the pipeline
// goroutine (consuming); the underlying arena.Pool serializes allocation.
type Factory struct {
	pool *arena.Pool[*Packet]
}

// NewFactory creates a Factory. limit <= 0 means unbounded, matching
// arena.Pool semantics.
func NewFactory(limit int) *Factory {
	f := &Factory{}
	f.pool = arena.NewPool(func() *Packet { return &Packet{factory: f} }, limit)
	return f
}

// New allocates a fresh Packet with one reference held by the caller.
// Returns arena.ErrNoMem if the factory's bound is exhausted.
func (f *Factory) New() (*Packet, error) {
	p, err := f.pool.Allocate()
	if err != nil {
		return nil, fmt.Errorf("packet factory: %w", err)
	}
	*p = Packet{factory: f}
	p.refs.Store(1)
	return p, nil
}

// Ref increments p's reference count and returns p, so callers can write
// `held := factory.Ref(p)` when fanning a packet out to a second stage.
// Safe to call from a different goroutine than the one that allocated p.
func (f *Factory) Ref(p *Packet) *Packet {
	p.refs.Add(1)
	return p
}

// Release decrements p's reference count, returning it to the pool once
// the last reference is dropped. Safe to call from a different goroutine
// than the one that allocated or holds another reference to p.
func (f *Factory) Release(p *Packet) {
	n := p.refs.Add(-1)
	if n < 0 {
		panic("packet: over-released")
	}
	if n == 0 {
		f.pool.Release()
	}
}

// NumAllocations returns the number of packets currently outstanding.
func (f *Factory) NumAllocations() int64 {
	return f.pool.NumAllocations()
}

// EnablePanicOnLeak forwards to the underlying arena.Pool, for tests.
func (f *Factory) EnablePanicOnLeak() {
	f.pool.EnablePanicOnLeak()
}

// Close forwards to the underlying arena.Pool.
func (f *Factory) Close() {
	f.pool.Close()
}
