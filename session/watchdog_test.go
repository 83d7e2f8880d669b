package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchdogNoPlaybackTimeout(t *testing.T) {
	start := time.Unix(0, 0)
	cfg := Config{NoPlaybackTimeout: time.Second, ChoppyPlaybackTimeout: -1}
	w := NewWatchdog(cfg, start)

	terminate, reason := w.Check(start.Add(500 * time.Millisecond))
	require.False(t, terminate)
	require.Empty(t, reason)

	terminate, reason = w.Check(start.Add(1500 * time.Millisecond))
	require.True(t, terminate)
	require.Equal(t, "no_playback_timeout", reason)
}

func TestWatchdogNoPlaybackClockStartsAtConstruction(t *testing.T) {
	start := time.Unix(100, 0)
	cfg := Config{NoPlaybackTimeout: time.Second, ChoppyPlaybackTimeout: -1}
	w := NewWatchdog(cfg, start)

	// Check called immediately, well before any packet has arrived, must
	// not reset the clock to "now" -- the timeout is measured from
	// construction, not from first Check call.
	terminate, _ := w.Check(start.Add(2 * time.Second))
	require.True(t, terminate)
}

func TestWatchdogNotePacketResetsClock(t *testing.T) {
	start := time.Unix(0, 0)
	cfg := Config{NoPlaybackTimeout: time.Second, ChoppyPlaybackTimeout: -1}
	w := NewWatchdog(cfg, start)

	w.NotePacket(start.Add(900 * time.Millisecond))
	terminate, _ := w.Check(start.Add(1500 * time.Millisecond))
	require.False(t, terminate)
}

func TestWatchdogChoppyPlaybackTimeout(t *testing.T) {
	start := time.Unix(0, 0)
	cfg := Config{NoPlaybackTimeout: -1, ChoppyPlaybackTimeout: time.Second}
	w := NewWatchdog(cfg, start)

	w.NoteGap(start)
	terminate, reason := w.Check(start.Add(500 * time.Millisecond))
	require.False(t, terminate)

	terminate, reason = w.Check(start.Add(1500 * time.Millisecond))
	require.True(t, terminate)
	require.Equal(t, "choppy_playback_timeout", reason)
}

func TestWatchdogNotePacketEndsChoppyRun(t *testing.T) {
	start := time.Unix(0, 0)
	cfg := Config{NoPlaybackTimeout: -1, ChoppyPlaybackTimeout: time.Second}
	w := NewWatchdog(cfg, start)

	w.NoteGap(start)
	w.NotePacket(start.Add(200 * time.Millisecond))

	terminate, _ := w.Check(start.Add(1500 * time.Millisecond))
	require.False(t, terminate)
}

func TestWatchdogDisabledTimeoutsNeverFire(t *testing.T) {
	start := time.Unix(0, 0)
	cfg := Config{NoPlaybackTimeout: -1, ChoppyPlaybackTimeout: -1}
	w := NewWatchdog(cfg, start)

	w.NoteGap(start)
	terminate, _ := w.Check(start.Add(time.Hour))
	require.False(t, terminate)
}
