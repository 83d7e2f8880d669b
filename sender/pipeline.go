package sender

import (
	"time"

	"github.com/pion/rtcp"
	"github.com/rocstream/roc-go/fec"
	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/rtcpfeedback"
	"github.com/rocstream/roc-go/status"
)

// FrameSource is the pull seam between the audio device/user thread and
// the sender pipeline, mirroring session.Decoder's symmetry on the
// receive side: a frame push at the API boundary becomes a series of
// WriteFrame calls here.
type FrameSource interface {
	// NextFrame returns the next n*Channels interleaved samples, or
	// ok=false once the source is exhausted.
	NextFrame(n int) (samples []int16, ok bool)
}

// Pipeline wires FrameSource -> Packetizer -> (optional) FEC BlockWriter
// -> output, and folds every outgoing packet into an rtcpfeedback.Tracker
// so periodic sender reports can be built, per §4.12.
type Pipeline struct {
	Source      FrameSource
	Packetizer  *Packetizer
	BlockWriter *fec.BlockWriter // nil when FEC is disabled
	Output      packet.Writer    // used directly when BlockWriter is nil
	Stats       *rtcpfeedback.Tracker

	captureTS  int64
	sampleRate uint32
}

// NewPipeline constructs a sender Pipeline. captureTS0 is the wall-clock
// time (ns) of the first frame; subsequent frames advance it by their
// sample count at sampleRate.
func NewPipeline(src FrameSource, pzr *Packetizer, bw *fec.BlockWriter, out packet.Writer, stats *rtcpfeedback.Tracker, sampleRate uint32, captureTS0 int64) *Pipeline {
	p := &Pipeline{
		Source:      src,
		Packetizer:  pzr,
		BlockWriter: bw,
		Output:      out,
		Stats:       stats,
		captureTS:   captureTS0,
		sampleRate:  sampleRate,
	}
	if bw != nil {
		// the packetizer writes through the block writer rather than
		// directly to Output, so the FEC footer is stamped on every
		// outgoing source packet before it reaches the network.
		p.Packetizer.Output = packet.WriterFunc(p.writeThroughFEC)
	} else {
		p.Packetizer.Output = packet.WriterFunc(p.writeDirect)
	}
	return p
}

// PushFrame pulls one frame of n samples per channel from Source and
// drives it through the chain. Returns status.NoData once the source is
// exhausted.
func (p *Pipeline) PushFrame(n int, now time.Time) status.Code {
	samples, ok := p.Source.NextFrame(n)
	if !ok {
		return status.NoData
	}
	code := p.Packetizer.WriteFrame(samples, p.captureTS)
	if status.IsFailure(code) {
		return code
	}
	if p.sampleRate > 0 {
		p.captureTS += int64(n) * int64(time.Second) / int64(p.sampleRate)
	}
	return status.Ok
}

// BuildSenderReport snapshots the RTCP sender report for the stream
// written so far, per §4.9.
func (p *Pipeline) BuildSenderReport(now time.Time) rtcp.SenderReport {
	return p.Stats.BuildSenderReport(now)
}

func (p *Pipeline) writeThroughFEC(pkt *packet.Packet) status.Code {
	p.Stats.UpdateWrite(pkt.RTP.SSRC, pkt.RTP.StreamTS, len(pkt.RTP.Payload), p.sampleRate, time.Now())
	return p.BlockWriter.Write(pkt)
}

func (p *Pipeline) writeDirect(pkt *packet.Packet) status.Code {
	p.Stats.UpdateWrite(pkt.RTP.SSRC, pkt.RTP.StreamTS, len(pkt.RTP.Payload), p.sampleRate, time.Now())
	return p.Output.Write(pkt)
}
