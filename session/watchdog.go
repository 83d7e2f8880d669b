package session

import "time"

// Watchdog tracks the two wall-clock termination conditions of §4.7 that
// aren't latency-estimate-based: no packets at all, or continuous
// stuttering (every pull in the window came back empty/concealed).
type Watchdog struct {
	noPlaybackTimeout     time.Duration
	choppyPlaybackTimeout time.Duration

	lastPacketAt time.Time
	choppySince  time.Time
	inChoppyRun  bool
}

// NewWatchdog constructs a Watchdog from the session Config, with the
// no-playback clock starting at startedAt.
func NewWatchdog(cfg Config, startedAt time.Time) *Watchdog {
	return &Watchdog{
		noPlaybackTimeout:     cfg.NoPlaybackTimeout,
		choppyPlaybackTimeout: cfg.ChoppyPlaybackTimeout,
		lastPacketAt:          startedAt,
	}
}

// NotePacket records that a real (non-concealed) packet was delivered at
// now, resetting both timeout clocks.
func (w *Watchdog) NotePacket(now time.Time) {
	w.lastPacketAt = now
	w.inChoppyRun = false
}

// NoteGap records a pull that had to be concealed or zero-filled (no data
// available), starting or continuing a choppy run.
func (w *Watchdog) NoteGap(now time.Time) {
	if !w.inChoppyRun {
		w.inChoppyRun = true
		w.choppySince = now
	}
}

// Check reports whether either timeout has fired as of now.
func (w *Watchdog) Check(now time.Time) (terminate bool, reason string) {
	if w.noPlaybackTimeout >= 0 && now.Sub(w.lastPacketAt) > w.noPlaybackTimeout {
		return true, "no_playback_timeout"
	}
	if w.choppyPlaybackTimeout >= 0 && w.inChoppyRun {
		if now.Sub(w.choppySince) > w.choppyPlaybackTimeout {
			return true, "choppy_playback_timeout"
		}
	}
	return false, ""
}
