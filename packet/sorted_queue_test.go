package packet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/rocstream/roc-go/status"
)

func TestSortedQueueOrdersBySeqnum(t *testing.T) {
	q := NewSortedQueue()
	seqs := []uint16{5, 1, 4, 2, 3}
	for _, s := range seqs {
		q.Write(&Packet{RTP: RTPView{SeqNum: s}})
	}

	for want := uint16(1); want <= 5; want++ {
		p, code := q.Read(ModeFetch)
		require.Equal(t, status.Ok, code)
		require.Equal(t, want, p.RTP.SeqNum)
	}
	_, code := q.Read(ModeFetch)
	require.Equal(t, status.Drain, code)
}

func TestSortedQueueWraparound(t *testing.T) {
	q := NewSortedQueue()
	// 65534, 65535, 0, 1 should sort in that order despite wraparound.
	seqs := []uint16{0, 65534, 1, 65535}
	for _, s := range seqs {
		q.Write(&Packet{RTP: RTPView{SeqNum: s}})
	}
	want := []uint16{65534, 65535, 0, 1}
	for _, w := range want {
		p, _ := q.Read(ModeFetch)
		require.Equal(t, w, p.RTP.SeqNum)
	}
}

func TestSortedQueueRandomOrderInsertion(t *testing.T) {
	q := NewSortedQueue()
	base := uint16(1000)
	perm := rand.New(rand.NewSource(1)).Perm(200)
	for _, off := range perm {
		q.Write(&Packet{RTP: RTPView{SeqNum: base + uint16(off)}})
	}
	var prev uint16
	first := true
	for {
		p, code := q.Read(ModeFetch)
		if code == status.Drain {
			break
		}
		if !first {
			require.True(t, seqDiff(p.RTP.SeqNum, prev) > 0)
		}
		prev = p.RTP.SeqNum
		first = false
	}
}
