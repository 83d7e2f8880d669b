package packet

import "github.com/rocstream/roc-go/status"

// ReadMode selects between the two read semantics every queue/stage in
// the pipeline exposes (§4.1).
type ReadMode int

const (
	// ModeFetch removes and returns the head if present, else Drain.
	ModeFetch ReadMode = iota
	// ModePeek returns a reference to the head without consuming it,
	// else Drain.
	ModePeek
)

// Reader is the read contract shared by every stage: queues, the FEC
// reader, the RTP filter, the timestamp injector. A null packet is never
// returned alongside status.Ok.
type Reader interface {
	Read(mode ReadMode) (*Packet, status.Code)
}

// Writer is the write contract shared by every stage that accepts
// packets. Writing a nil packet is a programming error and panics,
// mirroring the teacher's `roc_panic` on null packet writes.
type Writer interface {
	Write(p *Packet) status.Code
}

// ReaderFunc adapts a plain function to Reader.
type ReaderFunc func(mode ReadMode) (*Packet, status.Code)

func (f ReaderFunc) Read(mode ReadMode) (*Packet, status.Code) { return f(mode) }

// WriterFunc adapts a plain function to Writer.
type WriterFunc func(p *Packet) status.Code

func (f WriterFunc) Write(p *Packet) status.Code { return f(p) }
