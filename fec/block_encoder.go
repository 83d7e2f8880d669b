package fec

import "github.com/rocstream/roc-go/packet"

// BlockEncoder is the black-box codec seam the writer drives: given N
// source buffers of equal size it produces M repair buffers. The concrete
// Reed-Solomon/LDPC math is out of scope (§1 Non-goals); callers supply an
// implementation, and tests in this package exercise a toy XOR codec
// (NewXORBlockCodec) that only tolerates losing a single symbol, enough to
// drive the writer/reader orchestration without depending on an external
// codec library.
type BlockEncoder interface {
	// Begin starts a new block with n source symbols, m repair symbols,
	// each of payloadSize bytes.
	Begin(n, m, payloadSize int) error
	// SetSource stores the i'th source symbol's payload, i in [0,n).
	SetSource(i int, payload []byte)
	// Encode computes the M repair symbols for the current block,
	// returning one payload slice per repair symbol.
	Encode() ([][]byte, error)
}

// RecoveredSymbol is one source symbol recovered by Decode, identified by
// its index within the block (0..N-1, matching ESI for source symbols).
type RecoveredSymbol struct {
	Index   int
	Payload []byte
}

// BlockDecoder is the sibling decode seam: given any N of the N+M symbols
// of a block it recovers the missing source symbols.
type BlockDecoder interface {
	// Begin starts a new block with n source symbols, m repair symbols,
	// each of payloadSize bytes.
	Begin(n, m, payloadSize int) error
	// SetSource records a received source symbol at index i.
	SetSource(i int, payload []byte)
	// SetRepair records a received repair symbol at index i (0-based
	// within the repair range, i.e. esi-sbl).
	SetRepair(i int, payload []byte)
	// Decode attempts to recover all source symbols not yet set,
	// returning false if too few symbols are present to recover.
	Decode() (recovered []RecoveredSymbol, ok bool, err error)
}

// Scheme reports the wire scheme this codec instance was built for,
// letting the writer/reader validate that the codec and configured scheme
// agree.
type Scheme interface {
	Scheme() packet.Scheme
}
