package slot

import (
	"sync"

	"github.com/rocstream/roc-go/status"
)

// Manager owns a peer's slot table, keyed by a 64-bit index chosen by
// the caller. CreateSlot/GetOrCreate/Unlink take the table's write lock; Get takes only the
// read lock and returns a *Slot the caller then operates on directly
// (configure/bind/query), so slot-management tasks never block a
// frame-pulling goroutine that's already holding a *Slot it fetched
// earlier, per §5 ("concurrent frame reads are not blocked by
// slot-management tasks").
type Manager struct {
	mu    sync.RWMutex
	slots map[uint64]*Slot
}

// NewManager constructs an empty slot table.
func NewManager() *Manager {
	return &Manager{slots: make(map[uint64]*Slot)}
}

// CreateSlot creates a new slot at key if one doesn't already exist
// (slots are also created implicitly by the first Bind via
// GetOrCreate). Returns BadConfig if key is already in use.
func (m *Manager) CreateSlot(key uint64, fecEnabled bool) (*Slot, status.Code) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.slots[key]; exists {
		return nil, status.BadConfig
	}
	s := newSlot(key, fecEnabled)
	m.slots[key] = s
	return s, status.Ok
}

// GetOrCreate returns the slot at key, creating it (implicitly, per
// §4.8 "created implicitly on first bind/connect") if absent.
func (m *Manager) GetOrCreate(key uint64, fecEnabled bool) *Slot {
	m.mu.RLock()
	s, ok := m.slots[key]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[key]; ok {
		return s
	}
	s = newSlot(key, fecEnabled)
	m.slots[key] = s
	return s
}

// Get returns the slot at key, if any.
func (m *Manager) Get(key uint64) (*Slot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[key]
	return s, ok
}

// Unlink removes the slot at key, freeing its endpoints and allowing the
// key to be reused (§4.8: "Unlinking frees endpoints and resources and
// allows the index to be reused"). Unlink is the only operation a
// broken slot still accepts, which holds trivially here since Unlink
// doesn't go through the slot at all.
func (m *Manager) Unlink(key uint64) status.Code {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[key]; !ok {
		return status.BadInterface
	}
	delete(m.slots, key)
	return status.Ok
}

// Count returns the number of live slots, for the slot/connection
// metrics aggregate of §6.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}

// Each calls fn for every live slot. fn must not call back into the
// Manager (Unlink/CreateSlot) while iterating.
func (m *Manager) Each(fn func(key uint64, s *Slot)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, s := range m.slots {
		fn(k, s)
	}
}
