package packet

import (
	"container/list"

	"github.com/rocstream/roc-go/status"
)

// FIFOQueue is an insertion-order packet queue, grounded on
// roc_packet::FifoQueue. It is not thread-safe; concurrency is managed at
// pipeline boundaries (§5), typically by restricting a FIFOQueue to a
// single producer goroutine and a single consumer goroutine.
type FIFOQueue struct {
	list *list.List
}

// NewFIFOQueue creates an empty queue.
func NewFIFOQueue() *FIFOQueue {
	return &FIFOQueue{list: list.New()}
}

// Size returns the number of packets currently queued.
func (q *FIFOQueue) Size() int {
	return q.list.Len()
}

// Write appends a packet to the tail. Writing nil panics.
func (q *FIFOQueue) Write(p *Packet) status.Code {
	if p == nil {
		panic("fifo queue: nil packet")
	}
	q.list.PushBack(p)
	return status.Ok
}

// Read implements Reader: Fetch removes and returns the head, Peek
// returns it without removing. Returns Drain when empty.
func (q *FIFOQueue) Read(mode ReadMode) (*Packet, status.Code) {
	front := q.list.Front()
	if front == nil {
		return nil, status.Drain
	}
	p := front.Value.(*Packet)
	if mode == ModeFetch {
		q.list.Remove(front)
	}
	return p, status.Ok
}

// Head returns the oldest packet without removing it, or nil if empty.
func (q *FIFOQueue) Head() *Packet {
	front := q.list.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*Packet)
}

// Tail returns the newest packet without removing it, or nil if empty.
func (q *FIFOQueue) Tail() *Packet {
	back := q.list.Back()
	if back == nil {
		return nil
	}
	return back.Value.(*Packet)
}

var _ Reader = (*FIFOQueue)(nil)
var _ Writer = (*FIFOQueue)(nil)
