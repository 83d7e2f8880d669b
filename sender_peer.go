package rocgo

import (
	"github.com/rocstream/roc-go/fec"
	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/rtcpfeedback"
	"github.com/rocstream/roc-go/sender"
	"github.com/rocstream/roc-go/slot"
	"github.com/rocstream/roc-go/status"
)

// SenderPeer is the top-level send-side peer: it owns a slot table and,
// once a slot completes, assembles that slot's outbound chain
// (packetizer -> optional FEC block writer -> output) per §4.12. Named
// SenderPeer (not Sender) to avoid colliding with package sender's own
// Pipeline/Packetizer types it wires together.
type SenderPeer struct {
	ctx *Context
	cfg SenderConfig

	Slots *slot.Manager

	sessions map[uint64]*SenderSession
}

// SenderSession bundles the chain built for one completed slot.
type SenderSession struct {
	SlotKey     uint64
	BlockWriter *fec.BlockWriter // nil when FEC is disabled
	Stats       *rtcpfeedback.Tracker
	Pipeline    *sender.Pipeline
}

// NewSenderPeer constructs a SenderPeer from a finalized SenderConfig.
func NewSenderPeer(ctx *Context, cfg SenderConfig) *SenderPeer {
	return &SenderPeer{
		ctx:      ctx,
		cfg:      cfg.finalize(),
		Slots:    slot.NewManager(),
		sessions: make(map[uint64]*SenderSession),
	}
}

// Bind attaches an endpoint to one of a slot's interfaces.
func (p *SenderPeer) Bind(slotKey uint64, iface slot.Interface, uri string) status.Code {
	ep, err := slot.ParseEndpoint(uri)
	if err != nil {
		return status.BadConfig
	}
	s := p.Slots.GetOrCreate(slotKey, p.cfg.FECScheme != packet.SchemeNone)
	return s.Bind(iface, ep)
}

// Activate builds the outbound chain for slotKey once its slot is
// complete, writing to sourceOut (and repairOut, for FEC-enabled slots).
// src pulls frames from the audio device/user thread; enc encodes PCM
// samples into the wire payload.
func (p *SenderPeer) Activate(slotKey uint64, src sender.FrameSource, enc sender.Encoder, sourceOut, repairOut packet.Writer, captureTS0 int64) (*SenderSession, status.Code) {
	s, ok := p.Slots.Get(slotKey)
	if !ok {
		return nil, status.BadInterface
	}
	if !s.Complete() {
		return nil, status.BadInterface
	}

	ss := &SenderSession{SlotKey: slotKey, Stats: &rtcpfeedback.Tracker{}}

	pzr := sender.NewPacketizer(sender.PacketizerConfig{
		PayloadType: p.cfg.PayloadType,
		SSRC:        p.cfg.SSRC,
		SampleRate:  p.cfg.SampleRate,
		Channels:    p.cfg.Channels,
	}, enc, p.ctx.Factory, sourceOut)

	var bw *fec.BlockWriter
	if p.cfg.FECScheme != packet.SchemeNone {
		codec := fec.NewXORBlockCodec(p.cfg.FECScheme)
		// BlockWriter writes both stamped source packets and repair
		// packets to its single Output; fan them out to the two
		// endpoints by FlagRepair, matching fec's own
		// block_writer_reader_test.go newPipeline helper.
		fanOut := packet.WriterFunc(func(pkt *packet.Packet) status.Code {
			if pkt.Flags.Has(packet.FlagRepair) {
				return repairOut.Write(pkt)
			}
			return sourceOut.Write(pkt)
		})
		bw = fec.NewBlockWriter(fec.WriterConfig{
			NumSourcePackets: p.cfg.FECBlockSource,
			NumRepairPackets: p.cfg.FECBlockRepair,
		}, p.cfg.FECScheme, codec, fanOut, p.ctx.Factory)
		ss.BlockWriter = bw
	}

	ss.Pipeline = sender.NewPipeline(src, pzr, bw, sourceOut, ss.Stats, p.cfg.SampleRate, captureTS0)

	p.sessions[slotKey] = ss
	return ss, status.Ok
}

// Session returns the active SenderSession for slotKey, if any.
func (p *SenderPeer) Session(slotKey uint64) (*SenderSession, bool) {
	ss, ok := p.sessions[slotKey]
	return ss, ok
}

// Unlink tears down the session (if any) and the slot at slotKey.
func (p *SenderPeer) Unlink(slotKey uint64) status.Code {
	delete(p.sessions, slotKey)
	return p.Slots.Unlink(slotKey)
}
