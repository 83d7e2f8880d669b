// Package session implements the receive-side session pipeline chain
// (§4.7): the latency tuner, watchdog and termination-condition logic
// that bound end-to-end latency and decide when a drifted session must
// be torn down. Grounded on the teacher's functional-options
// configuration style (diago.DiagoOption) and its single-goroutine,
// atomic-terminal-flag session lifecycle
// (media.RTPPacketWriter's `closed atomic.Bool`).
package session

import (
	"time"

	"github.com/rs/zerolog"
)

// TunerProfile selects how the latency tuner reacts to a latency estimate
// that has drifted from the target (§4.7).
type TunerProfile int

const (
	// ProfileIntact does nothing but bounds-check; no resampler scale
	// adjustment.
	ProfileIntact TunerProfile = iota
	// ProfileResponsive adjusts the resampler scale quickly (large delta
	// clamp), trading audible pitch shift for fast latency recovery.
	ProfileResponsive
	// ProfileGradual adjusts slowly (small delta clamp), trading slow
	// recovery for inaudible pitch shift.
	ProfileGradual
)

// Config bounds a session's latency tuner and termination behavior, per
// §6 Configuration. The zero value is not valid; use DefaultConfig.
type Config struct {
	TargetLatency    time.Duration
	MinTargetLatency time.Duration
	MaxTargetLatency time.Duration
	Tolerance        time.Duration

	Profile TunerProfile

	// NoPlaybackTimeout and ChoppyPlaybackTimeout disable their
	// respective termination condition when negative (§4.7
	// Cancellation & timeouts).
	NoPlaybackTimeout     time.Duration
	ChoppyPlaybackTimeout time.Duration

	// HysteresisWindow bounds how long |estimate-target| may exceed
	// Tolerance before the session terminates.
	HysteresisWindow time.Duration

	SampleRate uint32
}

// DefaultConfig returns the §6 defaults: profile auto-selected by target
// latency (gradual up to 200ms, responsive above), generous timeouts.
func DefaultConfig(targetLatency time.Duration, sampleRate uint32) Config {
	profile := ProfileGradual
	if targetLatency > 200*time.Millisecond {
		profile = ProfileResponsive
	}
	return Config{
		TargetLatency:         targetLatency,
		MinTargetLatency:      targetLatency / 2,
		MaxTargetLatency:      targetLatency * 4,
		Tolerance:             targetLatency / 4,
		Profile:               profile,
		NoPlaybackTimeout:     2 * time.Second,
		ChoppyPlaybackTimeout: 2 * time.Second,
		HysteresisWindow:      time.Second,
		SampleRate:            sampleRate,
	}
}

// Option configures a Pipeline at construction, matching the teacher's
// DiagoOption pattern.
type Option func(*Pipeline)

// WithPLC installs a packet-loss-concealment plugin, used by the
// depacketizer when the FEC reader cannot repair a loss.
func WithPLC(plc PLC) Option {
	return func(p *Pipeline) { p.plc = plc }
}

// WithLog installs the logger used for termination and watchdog
// diagnostics. Without it, Pipeline logs through zerolog's zero-value
// Logger, which discards everything.
func WithLog(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.Log = log }
}
