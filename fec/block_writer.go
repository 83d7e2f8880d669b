package fec

import (
	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/status"
)

// WriterConfig mirrors roc_fec::BlockWriterConfig: block shape, defaulted
// per §6 (source packets 18, repair packets 10).
type WriterConfig struct {
	NumSourcePackets int
	NumRepairPackets int
}

// DefaultWriterConfig returns the §6 FEC defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{NumSourcePackets: 18, NumRepairPackets: 10}
}

// BlockWriter groups an ordered stream of source packets into fixed
// blocks, stamps FEC headers and writes an interleaved source+repair
// stream to Output, per §4.2. Grounded on roc_fec::BlockWriter, adapted
// to the teacher's status-code write(p) contract (media's RTP writers
// return plain errors; this pipeline uses status.Code throughout, per
// the filter/injector/session stages that share this package).
type BlockWriter struct {
	Scheme  packet.Scheme
	Encoder BlockEncoder
	Output  packet.Writer
	Factory Factory

	curN, nextN int
	curM, nextM int
	curPayload  int

	sbn       uint32
	repairSeq uint32
	curPacket int

	sources []*packet.Packet

	firstPacket bool

	prevBlockTSValid bool
	prevBlockTS      uint32
	blockMaxDuration uint32
}

// Factory is the minimal packet-allocation seam the writer needs: the
// session owns the real packet.Factory, but the writer only ever needs
// New(), so a narrow interface keeps this package decoupled from the
// packet package's pool internals.
type Factory interface {
	New() (*packet.Packet, error)
}

// NewBlockWriter constructs a writer for the given scheme, codec and
// output sink. cfg's zero value is not valid; use DefaultWriterConfig.
func NewBlockWriter(cfg WriterConfig, scheme packet.Scheme, enc BlockEncoder, out packet.Writer, f Factory) *BlockWriter {
	w := &BlockWriter{
		Scheme:      scheme,
		Encoder:     enc,
		Output:      out,
		Factory:     f,
		nextN:       cfg.NumSourcePackets,
		nextM:       cfg.NumRepairPackets,
		firstPacket: true,
	}
	return w
}

// MaxBlockDuration returns the running maximum block duration observed
// since the last Resize, in RTP clock ticks.
func (w *BlockWriter) MaxBlockDuration() uint32 {
	return w.blockMaxDuration
}

// Resize changes the block shape effective at the next block boundary.
func (w *BlockWriter) Resize(n, m int) status.Code {
	if n <= 0 || m < 0 || n+m > MaxBlockLen {
		return status.BadConfig
	}
	w.nextN = n
	w.nextM = m
	w.blockMaxDuration = 0
	return status.Ok
}

// Write accepts the next source packet in stream order.
func (w *BlockWriter) Write(p *packet.Packet) status.Code {
	if p == nil {
		panic("fec: BlockWriter.Write called with nil packet")
	}

	if w.curPacket == 0 {
		if code := w.beginBlock(p); code != status.Ok {
			w.resetBlock()
			return code
		}
	}

	if code := w.writeSourcePacket(p); code != status.Ok {
		w.resetBlock()
		return code
	}

	w.curPacket++
	if w.curPacket == w.curN {
		if code := w.endBlock(); code != status.Ok {
			w.resetBlock()
			return code
		}
		w.nextBlock()
	}
	return status.Ok
}

// resetBlock discards partial block state after a failure, so the next
// Write begins a fresh block rather than resuming mid-block (§4.2
// Failure).
func (w *BlockWriter) resetBlock() {
	w.curPacket = 0
	w.sources = nil
}

func (w *BlockWriter) beginBlock(p *packet.Packet) status.Code {
	w.curN = w.nextN
	w.curM = w.nextM
	w.curPayload = len(p.RTP.Payload)
	w.curPacket = 0

	if err := w.Encoder.Begin(w.curN, w.curM, w.curPayload); err != nil {
		return status.NoMem
	}
	w.sources = make([]*packet.Packet, w.curN)
	return status.Ok
}

func (w *BlockWriter) writeSourcePacket(p *packet.Packet) status.Code {
	if len(p.RTP.Payload) != w.curPayload {
		return status.BadConfig
	}

	w.sources[w.curPacket] = p
	w.Encoder.SetSource(w.curPacket, p.RTP.Payload)

	p.FEC = packet.FECView{
		SBN:    w.sbn,
		ESI:    uint32(w.curPacket),
		SBL:    uint32(w.curN),
		NES:    uint32(w.curN + w.curM),
		Scheme: w.Scheme,
	}
	p.Flags = p.Flags.With(packet.FlagPrepared)

	if w.curPacket == 0 {
		w.updateBlockDuration(p.RTP.StreamTS)
	}

	return w.Output.Write(p)
}

func (w *BlockWriter) updateBlockDuration(ts uint32) {
	if w.prevBlockTSValid {
		d := ts - w.prevBlockTS
		if int32(d) > int32(w.blockMaxDuration) {
			w.blockMaxDuration = d
		}
	}
	w.prevBlockTSValid = true
	w.prevBlockTS = ts
}

func (w *BlockWriter) endBlock() status.Code {
	repairPayloads, err := w.Encoder.Encode()
	if err != nil {
		return status.NoMem
	}

	base := w.sources[0]
	for i, payload := range repairPayloads {
		if i >= w.curM {
			break
		}
		rp, err := w.Factory.New()
		if err != nil {
			return status.NoMem
		}
		rp.Flags = packet.FlagRepair | packet.FlagPrepared
		rp.FEC = packet.FECView{
			SBN:     w.sbn,
			ESI:     uint32(w.curN + i),
			SBL:     uint32(w.curN),
			NES:     uint32(w.curN + w.curM),
			Scheme:  w.Scheme,
			Payload: payload,
		}
		if base != nil {
			rp.RTP.StreamTS = base.RTP.StreamTS
		}

		if code := w.Output.Write(rp); code != status.Ok {
			return code
		}
	}
	return status.Ok
}

func (w *BlockWriter) nextBlock() {
	w.sbn++
	w.curPacket = 0
	w.sources = nil
}
