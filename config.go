package rocgo

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/session"
)

// ResamplerProfile selects the quality/cost tradeoff of the resampler
// stage, per §6.
type ResamplerProfile int

const (
	ResamplerLow ResamplerProfile = iota
	ResamplerMedium
	ResamplerHigh
)

// ClockSource selects whether the pipeline thread paces itself with an
// internal CPU timer or is driven externally by the frame consumer,
// per §5.
type ClockSource int

const (
	ClockInternal ClockSource = iota
	ClockExternal
)

// ReceiverConfig is the zero-initializable top-level receiver
// configuration of §6. finalize replaces a zero TargetLatency,
// MinTargetLatency, MaxTargetLatency, Tolerance, FECBlockSource,
// FECBlockRepair, PacketLength, MaxPacketSize or MaxFrameSize with its
// default. The enum fields are taken as given: a zero FECScheme is
// packet.SchemeNone (no FEC), a zero TunerProfile is session.ProfileIntact,
// a zero ResamplerProfile is ResamplerLow and a zero ClockSource is
// ClockInternal. SampleRate and Channels have no default.
type ReceiverConfig struct {
	TargetLatency    time.Duration
	MinTargetLatency time.Duration
	MaxTargetLatency time.Duration
	Tolerance        time.Duration

	TunerProfile session.TunerProfile

	ResamplerProfile ResamplerProfile

	FECScheme      packet.Scheme
	FECBlockSource int
	FECBlockRepair int

	PacketLength  time.Duration
	MaxPacketSize int
	MaxFrameSize  int

	ClockSource ClockSource

	SampleRate uint32
	Channels   int
}

// DefaultReceiverConfig returns the §6 defaults: FEC rs8m, resampler
// medium, tuner profile auto-selected by target latency (mirrors
// session.DefaultConfig).
func DefaultReceiverConfig(sampleRate uint32, channels int) ReceiverConfig {
	const targetLatency = 200 * time.Millisecond
	return ReceiverConfig{
		TargetLatency:    targetLatency,
		MinTargetLatency: targetLatency / 2,
		MaxTargetLatency: targetLatency * 4,
		Tolerance:        targetLatency / 4,
		TunerProfile:     session.DefaultConfig(targetLatency, sampleRate).Profile,
		ResamplerProfile: ResamplerMedium,
		FECScheme:        packet.SchemeRS8M,
		FECBlockSource:   18,
		FECBlockRepair:   10,
		PacketLength:     20 * time.Millisecond,
		MaxPacketSize:    2048,
		MaxFrameSize:     4096,
		ClockSource:      ClockInternal,
		SampleRate:       sampleRate,
		Channels:         channels,
	}
}

// finalize fills the zero duration, size and FEC block fields listed on
// ReceiverConfig with their defaults; the enum fields are left as they are.
func (c ReceiverConfig) finalize() ReceiverConfig {
	d := DefaultReceiverConfig(c.SampleRate, c.Channels)
	if c.TargetLatency == 0 {
		c.TargetLatency = d.TargetLatency
	}
	if c.MinTargetLatency == 0 {
		c.MinTargetLatency = c.TargetLatency / 2
	}
	if c.MaxTargetLatency == 0 {
		c.MaxTargetLatency = c.TargetLatency * 4
	}
	if c.Tolerance == 0 {
		c.Tolerance = c.TargetLatency / 4
	}
	if c.FECBlockSource == 0 {
		c.FECBlockSource = d.FECBlockSource
	}
	if c.FECBlockRepair == 0 {
		c.FECBlockRepair = d.FECBlockRepair
	}
	if c.PacketLength == 0 {
		c.PacketLength = d.PacketLength
	}
	if c.MaxPacketSize == 0 {
		c.MaxPacketSize = d.MaxPacketSize
	}
	if c.MaxFrameSize == 0 {
		c.MaxFrameSize = d.MaxFrameSize
	}
	return c
}

// toSessionConfig derives the session package's Config from the
// top-level receiver configuration.
func (c ReceiverConfig) toSessionConfig() session.Config {
	return session.Config{
		TargetLatency:         c.TargetLatency,
		MinTargetLatency:      c.MinTargetLatency,
		MaxTargetLatency:      c.MaxTargetLatency,
		Tolerance:             c.Tolerance,
		Profile:               c.TunerProfile,
		NoPlaybackTimeout:     2 * time.Second,
		ChoppyPlaybackTimeout: 2 * time.Second,
		HysteresisWindow:      time.Second,
		SampleRate:            c.SampleRate,
	}
}

// SenderConfig is the zero-initializable top-level sender configuration
// of §6. finalize replaces a zero FECBlockSource, FECBlockRepair,
// PacketLength, MaxPacketSize or PayloadType with its default and a zero
// SSRC with a random one; a zero FECScheme is packet.SchemeNone (no FEC).
type SenderConfig struct {
	FECScheme      packet.Scheme
	FECBlockSource int
	FECBlockRepair int

	PacketLength  time.Duration
	MaxPacketSize int

	ClockSource ClockSource

	SampleRate  uint32
	Channels    int
	PayloadType uint8
	SSRC        uint32
}

// DefaultSenderConfig returns the §6 defaults applicable to the sender
// side.
func DefaultSenderConfig(sampleRate uint32, channels int) SenderConfig {
	return SenderConfig{
		FECScheme:      packet.SchemeRS8M,
		FECBlockSource: 18,
		FECBlockRepair: 10,
		PacketLength:   20 * time.Millisecond,
		MaxPacketSize:  2048,
		ClockSource:    ClockInternal,
		SampleRate:     sampleRate,
		Channels:       channels,
		PayloadType:    11,
	}
}

func (c SenderConfig) finalize() SenderConfig {
	d := DefaultSenderConfig(c.SampleRate, c.Channels)
	if c.FECBlockSource == 0 {
		c.FECBlockSource = d.FECBlockSource
	}
	if c.FECBlockRepair == 0 {
		c.FECBlockRepair = d.FECBlockRepair
	}
	if c.PacketLength == 0 {
		c.PacketLength = d.PacketLength
	}
	if c.MaxPacketSize == 0 {
		c.MaxPacketSize = d.MaxPacketSize
	}
	if c.PayloadType == 0 {
		c.PayloadType = d.PayloadType
	}
	if c.SSRC == 0 {
		c.SSRC = randomSSRC()
	}
	return c
}

// randomSSRC picks a random RTP synchronization source identifier, per
// RFC 3550's requirement that SSRC be chosen to make collisions between
// independently started senders unlikely. uuid.New() is a convenient
// source of cryptographically-strong randomness already in the module's
// dependency graph.
func randomSSRC() uint32 {
	id := uuid.New()
	return binary.BigEndian.Uint32(id[:4])
}
