// Package sender implements the sender-side chain of §4.12: frame
// source -> packetizer -> FEC block writer -> RTCP feedback -> output
// writer. Grounded on the teacher's outbound RTP composition
// (media/rtp_packet_writer.go's header-stamping) and the same
// status.Code contract the receive-side packages share.
package sender

import (
	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/rtpwire"
	"github.com/rocstream/roc-go/status"
)

// Encoder turns interleaved PCM samples into a wire payload, the inverse
// of session.Decoder.
type Encoder interface {
	Encode(samples []int16) []byte
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(samples []int16) []byte

func (f EncoderFunc) Encode(samples []int16) []byte { return f(samples) }

// PacketizerConfig names the identity and framing a Packetizer stamps on
// every packet it produces.
type PacketizerConfig struct {
	PayloadType uint8
	SSRC        uint32
	SampleRate  uint32
	Channels    int
}

// Packetizer slices a stream of fixed-size sample frames into RTP
// packets: one packet.Packet (FlagRTP|FlagAudio) per frame, with a
// monotonic sequence number and a sample-clock timestamp that advances
// by the frame's sample count.
type Packetizer struct {
	Cfg     PacketizerConfig
	Encoder Encoder
	Factory *packet.Factory
	Output  packet.Writer

	seq SequenceEmitter
	ts  uint32
}

// SequenceEmitter is the narrow seam Packetizer needs from
// rtpwire.SequenceTracker (kept as an interface so tests can substitute
// a deterministic counter).
type SequenceEmitter interface {
	NextSeqNumber() uint16
}

// NewPacketizer constructs a Packetizer with a freshly randomized
// starting sequence number, per RFC 3550's recommendation.
func NewPacketizer(cfg PacketizerConfig, enc Encoder, factory *packet.Factory, out packet.Writer) *Packetizer {
	tracker := rtpwire.NewSequenceTracker()
	return &Packetizer{Cfg: cfg, Encoder: enc, Factory: factory, Output: out, seq: &tracker}
}

// WriteFrame encodes one frame of interleaved samples (frameSamples =
// len(samples)/Channels) and writes the resulting packet downstream.
func (p *Packetizer) WriteFrame(samples []int16, captureTS int64) status.Code {
	if p.Cfg.Channels <= 0 {
		return status.BadConfig
	}
	frameSamples := len(samples) / p.Cfg.Channels

	pkt, err := p.Factory.New()
	if err != nil {
		return status.NoMem
	}
	pkt.Flags = packet.FlagRTP | packet.FlagAudio
	pkt.RTP.PayloadType = p.Cfg.PayloadType
	pkt.RTP.SSRC = p.Cfg.SSRC
	pkt.RTP.SeqNum = p.seq.NextSeqNumber()
	pkt.RTP.StreamTS = p.ts
	pkt.RTP.CaptureTS = captureTS
	pkt.RTP.Duration = uint32(frameSamples)
	pkt.RTP.Payload = p.Encoder.Encode(samples)

	p.ts += uint32(frameSamples)

	return p.Output.Write(pkt)
}

// *rtpwire.SequenceTracker satisfies SequenceEmitter.
var _ SequenceEmitter = (*rtpwire.SequenceTracker)(nil)
