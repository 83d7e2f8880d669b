package slot

import (
	"testing"

	"github.com/rocstream/roc-go/status"
	"github.com/stretchr/testify/require"
)

func TestManagerCreateSlotRejectsDuplicateKey(t *testing.T) {
	m := NewManager()
	_, code := m.CreateSlot(1, false)
	require.Equal(t, status.Ok, code)

	_, code = m.CreateSlot(1, false)
	require.Equal(t, status.BadConfig, code)
}

func TestManagerGetOrCreateImplicitCreation(t *testing.T) {
	m := NewManager()
	_, ok := m.Get(5)
	require.False(t, ok)

	s := m.GetOrCreate(5, true)
	require.NotNil(t, s)
	require.Equal(t, uint64(5), s.Key)

	got, ok := m.Get(5)
	require.True(t, ok)
	require.Same(t, s, got)
}

func TestManagerGetOrCreateReturnsSameSlotOnSecondCall(t *testing.T) {
	m := NewManager()
	s1 := m.GetOrCreate(7, false)
	s2 := m.GetOrCreate(7, false)
	require.Same(t, s1, s2)
}

func TestManagerUnlinkFreesKeyForReuse(t *testing.T) {
	m := NewManager()
	m.GetOrCreate(9, false)
	require.Equal(t, status.Ok, m.Unlink(9))

	_, ok := m.Get(9)
	require.False(t, ok)

	_, code := m.CreateSlot(9, false)
	require.Equal(t, status.Ok, code)
}

func TestManagerUnlinkUnknownKey(t *testing.T) {
	m := NewManager()
	require.Equal(t, status.BadInterface, m.Unlink(42))
}

func TestManagerCount(t *testing.T) {
	m := NewManager()
	require.Equal(t, 0, m.Count())
	m.GetOrCreate(1, false)
	m.GetOrCreate(2, false)
	require.Equal(t, 2, m.Count())
}

func TestManagerEachVisitsAllSlots(t *testing.T) {
	m := NewManager()
	m.GetOrCreate(1, false)
	m.GetOrCreate(2, false)

	seen := map[uint64]bool{}
	m.Each(func(key uint64, s *Slot) { seen[key] = true })
	require.Len(t, seen, 2)
}
