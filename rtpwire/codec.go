// Package rtpwire adapts the wire-level RTP/RTCP concerns — payload
// encoding registry, sequence number tracking, marshal/unmarshal — that
// the filter, injector, packetizer and depacketizer stages all need,
// grounded on github.com/emiago/diago's media package (codec.go,
// rtp_parse.go, rtp_sequencer.go) and on pion/rtp, pion/rtcp.
package rtpwire

import (
	"fmt"
	"time"
)

// Encoding describes a registered payload format (§6 Packet encoding
// registry): its RTP payload type, sample rate and channel count. Unlike
// the teacher's SDP-negotiated Codec, an Encoding is keyed purely by
// payload type, matching the spec's URI/PT-addressed model rather than
// SDP offer/answer.
type Encoding struct {
	PayloadType uint8
	SampleRate  uint32
	Channels    uint8
	// SampleDur is the nominal packetization interval used to derive a
	// packet's Duration when it isn't already known.
	SampleDur time.Duration
}

// SampleTimestamp returns the number of RTP clock ticks spanned by one
// packet of SampleDur at SampleRate.
func (e Encoding) SampleTimestamp() uint32 {
	return uint32(float64(e.SampleRate) * e.SampleDur.Seconds())
}

// Samples returns the number of samples (per channel) implied by a
// payload of the given byte size, assuming 16-bit linear samples.
func (e Encoding) Samples(payloadSize int) uint32 {
	bytesPerFrame := 2 * int(e.Channels)
	if bytesPerFrame == 0 {
		return 0
	}
	return uint32(payloadSize / bytesPerFrame)
}

const (
	// PayloadTypeL16Stereo44100 is the built-in registry entry for
	// 44100Hz stereo big-endian L16 (§6 table, ID 10).
	PayloadTypeL16Stereo44100 uint8 = 10
	// PayloadTypeL16Mono44100 is the built-in registry entry for
	// 44100Hz mono big-endian L16 (§6 table, ID 11).
	PayloadTypeL16Mono44100 uint8 = 11
	// PayloadTypeULaw and PayloadTypeALaw are carried from the domain
	// stack's G.711 codec (github.com/zaf/g711), giving the registry
	// narrowband fallback entries alongside the wideband L16 defaults.
	PayloadTypeULaw uint8 = 0
	PayloadTypeALaw uint8 = 8

	userRegisteredMin uint8 = 100
	userRegisteredMax uint8 = 127
)

// EncodingRegistry maps payload types to Encodings. It ships pre-seeded
// with the built-in §6 table and additionally accepts user registrations
// in the 100-127 range, supplementing the distilled spec per
// roc/config.h's `roc_media_encoding`.
type EncodingRegistry struct {
	entries map[uint8]Encoding
}

// NewEncodingRegistry returns a registry pre-populated with the built-in
// encodings.
func NewEncodingRegistry() *EncodingRegistry {
	r := &EncodingRegistry{entries: make(map[uint8]Encoding)}
	r.entries[PayloadTypeL16Stereo44100] = Encoding{
		PayloadType: PayloadTypeL16Stereo44100,
		SampleRate:  44100,
		Channels:    2,
		SampleDur:   20 * time.Millisecond,
	}
	r.entries[PayloadTypeL16Mono44100] = Encoding{
		PayloadType: PayloadTypeL16Mono44100,
		SampleRate:  44100,
		Channels:    1,
		SampleDur:   20 * time.Millisecond,
	}
	r.entries[PayloadTypeULaw] = Encoding{
		PayloadType: PayloadTypeULaw,
		SampleRate:  8000,
		Channels:    1,
		SampleDur:   20 * time.Millisecond,
	}
	r.entries[PayloadTypeALaw] = Encoding{
		PayloadType: PayloadTypeALaw,
		SampleRate:  8000,
		Channels:    1,
		SampleDur:   20 * time.Millisecond,
	}
	return r
}

// Register adds or replaces a user-defined encoding. id must fall in the
// 100-127 user-registered range.
func (r *EncodingRegistry) Register(id uint8, enc Encoding) error {
	if id < userRegisteredMin || id > userRegisteredMax {
		return fmt.Errorf("rtpwire: payload type %d is outside the user-registered range [%d,%d]",
			id, userRegisteredMin, userRegisteredMax)
	}
	enc.PayloadType = id
	r.entries[id] = enc
	return nil
}

// Lookup returns the encoding for a payload type, and whether it exists.
func (r *EncodingRegistry) Lookup(id uint8) (Encoding, bool) {
	e, ok := r.entries[id]
	return e, ok
}
