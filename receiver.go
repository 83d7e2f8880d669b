package rocgo

import (
	"time"

	"github.com/rocstream/roc-go/fec"
	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/rtpfilter"
	"github.com/rocstream/roc-go/session"
	"github.com/rocstream/roc-go/slot"
	"github.com/rocstream/roc-go/status"
)

// Receiver is the top-level receive-side peer: it owns a slot table and,
// once a slot completes (§4.8), assembles that slot's per-session chain
// (filter -> injector -> FEC reader -> session.Pipeline, per §4.10) from
// the raw per-interface packet sources the caller's network loop feeds
// it. The network loop itself is out of this module's scope (spec.md
// "Out of scope": "the UDP network loop").
type Receiver struct {
	ctx *Context
	cfg ReceiverConfig

	Slots *slot.Manager

	sessions map[uint64]*ReceiverSession
}

// ReceiverSession bundles the chain built for one completed slot.
type ReceiverSession struct {
	SlotKey   uint64
	Filter    *rtpfilter.Filter
	Injector  *rtpfilter.TimestampInjector
	FECReader *fec.BlockReader // nil when FEC is disabled
	Pipeline  *session.Pipeline
}

// NewReceiver constructs a Receiver from a finalized ReceiverConfig.
func NewReceiver(ctx *Context, cfg ReceiverConfig) *Receiver {
	return &Receiver{
		ctx:      ctx,
		cfg:      cfg.finalize(),
		Slots:    slot.NewManager(),
		sessions: make(map[uint64]*ReceiverSession),
	}
}

// Bind attaches an endpoint to one of a slot's interfaces, creating the
// slot implicitly if it doesn't exist yet, per §4.8.
func (r *Receiver) Bind(slotKey uint64, iface slot.Interface, uri string) status.Code {
	ep, err := slot.ParseEndpoint(uri)
	if err != nil {
		return status.BadConfig
	}
	s := r.Slots.GetOrCreate(slotKey, r.cfg.FECScheme != packet.SchemeNone)
	return s.Bind(iface, ep)
}

// Activate builds the receive chain for slotKey once its slot is
// complete (§4.8), wiring sourceIn (and repairIn, for FEC-enabled slots)
// as the chain's raw packet sources. decode turns a payload into PCM
// samples (built-in L16 or a registered encoding, per §5's encoding
// registry). now seeds the session's watchdog clock.
func (r *Receiver) Activate(slotKey uint64, sourceIn, repairIn packet.Reader, decode session.Decoder, now time.Time) (*ReceiverSession, status.Code) {
	s, ok := r.Slots.Get(slotKey)
	if !ok {
		return nil, status.BadInterface
	}
	if !s.Complete() {
		return nil, status.BadInterface
	}

	rs := &ReceiverSession{SlotKey: slotKey}

	filter := rtpfilter.NewFilter(sourceIn, rtpfilter.Config{
		MaxSeqNumJump:    3000,
		MaxTimestampJump: int64(time.Second),
		SampleRate:       r.cfg.SampleRate,
	})
	rs.Filter = filter

	injector := rtpfilter.NewTimestampInjector(filter, r.cfg.SampleRate, r.ctx.Log)
	rs.Injector = injector

	var upstream packet.Reader = injector
	if r.cfg.FECScheme != packet.SchemeNone {
		enc := chooseCodec(r.cfg.FECScheme)
		reader := fec.NewBlockReader(fec.DefaultReaderConfig(), r.cfg.FECScheme, enc, injector, repairIn, r.ctx.Factory)
		rs.FECReader = reader
		upstream = reader
	}

	rs.Pipeline = session.NewPipeline(upstream, decode, r.cfg.Channels, r.cfg.toSessionConfig(), now, session.WithLog(r.ctx.Log))

	r.sessions[slotKey] = rs
	return rs, status.Ok
}

// Session returns the active ReceiverSession for slotKey, if any.
func (r *Receiver) Session(slotKey uint64) (*ReceiverSession, bool) {
	rs, ok := r.sessions[slotKey]
	return rs, ok
}

// Unlink tears down the session (if any) and the slot at slotKey.
func (r *Receiver) Unlink(slotKey uint64) status.Code {
	delete(r.sessions, slotKey)
	return r.Slots.Unlink(slotKey)
}

// chooseCodec picks the block codec for scheme. The concrete
// Reed-Solomon/LDPC codec is an external black box per spec.md's scope
// note; DESIGN.md records fec.XORBlockCodec as the stand-in this module
// ships, wired here as the default for both schemes until a real codec
// is linked in.
func chooseCodec(scheme packet.Scheme) fec.BlockDecoder {
	return fec.NewXORBlockCodec(scheme)
}
