// Package rtpfilter implements the RTP Filter (§4.4) and Timestamp
// Injector (§4.5) session pipeline stages, grounded on the teacher's
// media.RTPSession read path (media/rtp_session.go's ReadRTP validation:
// keep-alive/empty-payload skip, per-SSRC stats reset) generalized to the
// packet.Reader/Writer seam the rest of this module shares, and on
// rs/zerolog for the injector's rate-limited trace logging.
package rtpfilter

import (
	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/status"
)

// Config bounds the jump tolerances the filter enforces, in the units the
// spec names: sequence numbers directly, timestamps in nanoseconds
// (converted internally via SampleRate).
type Config struct {
	MaxSeqNumJump   uint16
	MaxTimestampJump int64 // nanoseconds
	SampleRate      uint32
}

// Filter sits between a raw packet source and downstream consumers,
// enforcing §4.4's per-session PT/SSRC stability and jump-tolerance rules.
// It is itself a packet.Reader, so it composes directly in front of the
// timestamp injector and FEC reader.
type Filter struct {
	Source packet.Reader
	Cfg    Config

	Decoder interface {
		Samples(payloadSize int) uint32
	}

	havePT   bool
	firstPT  uint8
	firstSSRC uint32
	haveLast bool
	lastSeq  uint16
	lastTS   uint32

	dropped uint64
}

// NewFilter wraps source with §4.4 validation using cfg.
func NewFilter(source packet.Reader, cfg Config) *Filter {
	return &Filter{Source: source, Cfg: cfg}
}

// DroppedCount returns the number of packets the filter has silently
// dropped (invalid flags, PT/SSRC mismatch, excessive jump, cts<0).
func (f *Filter) DroppedCount() uint64 { return f.dropped }

// Read implements packet.Reader. Peek mode scans forward past invalid
// packets, fetching and dropping each invalid head from Source, and
// returns the first valid packet without consuming it.
func (f *Filter) Read(mode packet.ReadMode) (*packet.Packet, status.Code) {
	for {
		p, code := f.Source.Read(mode)
		if code != status.Ok {
			return nil, code
		}

		if !f.validate(p) {
			f.dropped++
			if mode == packet.ModeFetch {
				continue
			}
			// In peek mode we cannot silently discard the invalid head
			// from Source without consuming it, so advance past it by
			// fetching-and-dropping, then keep peeking.
			_, _ = f.Source.Read(packet.ModeFetch)
			continue
		}

		if mode == packet.ModeFetch {
			f.commit(p)
		}
		return p, status.Ok
	}
}

func (f *Filter) validate(p *packet.Packet) bool {
	if !p.Flags.Has(packet.FlagRTP) || !p.Flags.Has(packet.FlagAudio) {
		return false
	}

	if !f.havePT {
		// first validated packet of the session establishes PT/SSRC
	} else if p.RTP.PayloadType != f.firstPT || p.RTP.SSRC != f.firstSSRC {
		return false
	}

	if f.haveLast {
		snDiff := seqDiff(p.RTP.SeqNum, f.lastSeq)
		if snDiff < 0 {
			snDiff = -snDiff
		}
		if uint16(snDiff) > f.Cfg.MaxSeqNumJump {
			return false
		}

		tsDiff := int64(int32(p.RTP.StreamTS - f.lastTS))
		if tsDiff < 0 {
			tsDiff = -tsDiff
		}
		if f.Cfg.SampleRate > 0 {
			tsDiffNs := tsDiff * 1e9 / int64(f.Cfg.SampleRate)
			if tsDiffNs > f.Cfg.MaxTimestampJump {
				return false
			}
		}
	}

	if p.RTP.CaptureTS < 0 {
		return false
	}

	if p.RTP.Duration == 0 && f.Decoder != nil {
		p.RTP.Duration = f.Decoder.Samples(len(p.RTP.Payload))
	}

	return true
}

func (f *Filter) commit(p *packet.Packet) {
	if !f.havePT {
		f.havePT = true
		f.firstPT = p.RTP.PayloadType
		f.firstSSRC = p.RTP.SSRC
	}
	f.haveLast = true
	f.lastSeq = p.RTP.SeqNum
	f.lastTS = p.RTP.StreamTS
}

// seqDiff returns the signed 16-bit wraparound difference a-b, matching
// rtpwire's extended sequence number arithmetic.
func seqDiff(a, b uint16) int32 {
	return int32(int16(a - b))
}

var _ packet.Reader = (*Filter)(nil)
