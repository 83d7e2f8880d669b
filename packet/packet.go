// Package packet defines the tagged-union packet container shared by
// every pipeline stage (§3 Data Model, Packet), the FIFO/sorted queue
// read contract (§4.1), and the FEC wire scheme identifiers (§6).
//
// A Packet is produced by a Factory and is reference-counted: stages hold
// a *Packet across goroutine/stage boundaries (network reader producing,
// pipeline consuming; FEC reader fanning one received packet out into
// both the assembly window and the eventual emitted stream). Restored
// packets are never a mutation of a received one -- they are fresh
// allocations from the Factory, matching DESIGN NOTES ("restored packets
// are fresh allocations, not mutations").
package packet

import (
	"net"
	"sync/atomic"
)

// Scheme identifies the FEC family in use, or SchemeNone when FEC is
// disabled.
type Scheme uint8

const (
	SchemeNone Scheme = iota
	SchemeRS8M
	SchemeLDPC
)

func (s Scheme) String() string {
	switch s {
	case SchemeNone:
		return "none"
	case SchemeRS8M:
		return "rs8m"
	case SchemeLDPC:
		return "ldpc"
	default:
		return "unknown"
	}
}

// RTPView holds the RTP-specific fields of a Packet. Valid only when
// FlagRTP is set.
type RTPView struct {
	PayloadType uint8
	SSRC        uint32
	SeqNum      uint16
	// StreamTS is the RTP (media clock) timestamp.
	StreamTS uint32
	// CaptureTS is the wall-clock capture time in nanoseconds, filled by
	// the timestamp injector; zero until a mapping is known.
	CaptureTS int64
	// Duration is the number of samples this packet's payload spans.
	Duration uint32
	Payload  []byte
}

// FECView holds the FEC footer/header fields of a Packet. Valid only
// when FlagRepair is set, or for source packets once FlagPrepared is set.
type FECView struct {
	// SBN is the source block number.
	SBN uint32
	// ESI is the encoding symbol id within the block.
	ESI uint32
	// SBL is the source block length (N).
	SBL uint32
	// NES is the number of encoding symbols, source + repair (N+M).
	NES    uint32
	Scheme Scheme
	// Payload is the repair symbol payload; for source packets sharing
	// a footer, this is left empty (the audio payload lives in RTPView).
	Payload []byte
}

// UDPView holds network source/destination addresses. Valid only when
// FlagUDP is set.
type UDPView struct {
	Src net.Addr
	Dst net.Addr
}

// Packet is the tagged union described in §3. Only the views indicated
// by Flags are meaningful; reading an unset view returns its zero value.
type Packet struct {
	Flags Flags

	RTP RTPView
	FEC FECView
	UDP UDPView

	// Buf is the owned byte buffer backing this packet, if any. Stages
	// that compose wire bytes (the sender's packetizer, the FEC block
	// writer) write into Buf; Payload slices above may alias into it.
	Buf []byte

	factory *Factory
	refs    atomic.Int32
}

// HasRTP reports whether the RTP view is populated.
func (p *Packet) HasRTP() bool { return p.Flags.Has(FlagRTP) }

// HasAudio reports whether the packet carries audio payload.
func (p *Packet) HasAudio() bool { return p.Flags.Has(FlagAudio) }

// HasFEC reports whether the FEC view is populated. Restored packets
// never have an FEC view (§3 invariant: Restored ⇒ no FEC view).
func (p *Packet) HasFEC() bool {
	return p.Flags.Any(FlagRepair|FlagPrepared) && !p.Flags.Has(FlagRestored)
}

// Validate checks the §3 Packet invariants that are cheap to check
// per-packet: Audio implies RTP, and Restored implies no FEC view.
func (p *Packet) Validate() bool {
	if p.Flags.Has(FlagAudio) && !p.Flags.Has(FlagRTP) {
		return false
	}
	if p.Flags.Has(FlagRestored) && p.Flags.Any(FlagRepair|FlagPrepared) {
		return false
	}
	return true
}

// Clone returns a deep-ish copy sharing no mutable backing storage with p
// (Payload slices are copied). Used when a restored packet needs to carry
// forward fields from a template packet in the same block.
func (p *Packet) Clone() *Packet {
	c := &Packet{
		Flags: p.Flags,
		RTP:   p.RTP,
		FEC:   p.FEC,
		UDP:   p.UDP,
	}
	if p.RTP.Payload != nil {
		c.RTP.Payload = append([]byte(nil), p.RTP.Payload...)
	}
	if p.FEC.Payload != nil {
		c.FEC.Payload = append([]byte(nil), p.FEC.Payload...)
	}
	if p.Buf != nil {
		c.Buf = append([]byte(nil), p.Buf...)
	}
	return c
}
