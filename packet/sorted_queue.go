package packet

import (
	"container/list"

	"github.com/rocstream/roc-go/status"
)

// seqDiff returns the smallest signed difference a-b for 16-bit RTP
// sequence numbers, handling wraparound the same way the RTP filter's
// jump detection does (§4.4).
func seqDiff(a, b uint16) int32 {
	return int32(int16(a - b))
}

// SortedQueue orders packets by RTP sequence number (wraparound-aware).
// Every queued packet must have FlagRTP set.
type SortedQueue struct {
	list *list.List
}

// NewSortedQueue creates an empty queue.
func NewSortedQueue() *SortedQueue {
	return &SortedQueue{list: list.New()}
}

// Size returns the number of packets currently queued.
func (q *SortedQueue) Size() int {
	return q.list.Len()
}

// Write inserts p in sequence-number order. Duplicate sequence numbers
// are inserted after existing entries with the same number (stable).
func (q *SortedQueue) Write(p *Packet) status.Code {
	if p == nil {
		panic("sorted queue: nil packet")
	}

	for e := q.list.Back(); e != nil; e = e.Prev() {
		existing := e.Value.(*Packet)
		if seqDiff(p.RTP.SeqNum, existing.RTP.SeqNum) >= 0 {
			q.list.InsertAfter(p, e)
			return status.Ok
		}
	}
	q.list.PushFront(p)
	return status.Ok
}

// Read implements Reader over the sorted order.
func (q *SortedQueue) Read(mode ReadMode) (*Packet, status.Code) {
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

// Head returns the lowest-sequence packet without removing it, or nil.
func (q *SortedQueue) Head() *Packet {
	front := q.list.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*Packet)
}

var _ Reader = (*SortedQueue)(nil)
var _ Writer = (*SortedQueue)(nil)
