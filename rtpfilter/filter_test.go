package rtpfilter

import (
	"testing"

	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/status"
	"github.com/stretchr/testify/require"
)

func rtpPacket(pt uint8, ssrc uint32, seq uint16, ts uint32, cts int64, dur uint32) *packet.Packet {
	return &packet.Packet{
		Flags: packet.FlagRTP | packet.FlagAudio,
		RTP: packet.RTPView{
			PayloadType: pt,
			SSRC:        ssrc,
			SeqNum:      seq,
			StreamTS:    ts,
			CaptureTS:   cts,
			Duration:    dur,
			Payload:     []byte{1, 2, 3, 4},
		},
	}
}

func queueOf(pkts ...*packet.Packet) *packet.FIFOQueue {
	q := packet.NewFIFOQueue()
	for _, p := range pkts {
		q.Write(p)
	}
	return q
}

func TestFilterPassesValidPackets(t *testing.T) {
	q := queueOf(
		rtpPacket(10, 1, 0, 0, 1, 160),
		rtpPacket(10, 1, 1, 160, 2, 160),
	)
	f := NewFilter(q, Config{MaxSeqNumJump: 100, MaxTimestampJump: 1e9, SampleRate: 8000})

	p1, code := f.Read(packet.ModeFetch)
	require.Equal(t, status.Ok, code)
	require.Equal(t, uint16(0), p1.RTP.SeqNum)

	p2, code := f.Read(packet.ModeFetch)
	require.Equal(t, status.Ok, code)
	require.Equal(t, uint16(1), p2.RTP.SeqNum)
}

func TestFilterSkipsNonRTPOrNonAudio(t *testing.T) {
	bad := rtpPacket(10, 1, 0, 0, 1, 160)
	bad.Flags = packet.FlagRTP // no Audio flag
	good := rtpPacket(10, 1, 1, 160, 2, 160)
	q := queueOf(bad, good)

	f := NewFilter(q, Config{MaxSeqNumJump: 100, MaxTimestampJump: 1e9, SampleRate: 8000})
	p, code := f.Read(packet.ModeFetch)
	require.Equal(t, status.Ok, code)
	require.Same(t, good, p)
	require.Equal(t, uint64(1), f.DroppedCount())
}

func TestFilterSkipsPTMismatch(t *testing.T) {
	q := queueOf(
		rtpPacket(10, 1, 0, 0, 1, 160),
		rtpPacket(11, 1, 1, 160, 2, 160), // different PT
		rtpPacket(10, 1, 2, 320, 3, 160),
	)
	f := NewFilter(q, Config{MaxSeqNumJump: 100, MaxTimestampJump: 1e9, SampleRate: 8000})

	p1, _ := f.Read(packet.ModeFetch)
	require.Equal(t, uint16(0), p1.RTP.SeqNum)
	p2, _ := f.Read(packet.ModeFetch)
	require.Equal(t, uint16(2), p2.RTP.SeqNum, "PT-mismatched packet skipped")
}

func TestFilterSkipsExcessiveSeqJump(t *testing.T) {
	q := queueOf(
		rtpPacket(10, 1, 0, 0, 1, 160),
		rtpPacket(10, 1, 5000, 160, 2, 160), // huge jump
	)
	f := NewFilter(q, Config{MaxSeqNumJump: 100, MaxTimestampJump: 1e9, SampleRate: 8000})
	f.Read(packet.ModeFetch)
	_, code := f.Read(packet.ModeFetch)
	require.Equal(t, status.Drain, code)
}

func TestFilterSkipsNegativeCaptureTS(t *testing.T) {
	q := queueOf(rtpPacket(10, 1, 0, 0, -1, 160))
	f := NewFilter(q, Config{MaxSeqNumJump: 100, MaxTimestampJump: 1e9, SampleRate: 8000})
	_, code := f.Read(packet.ModeFetch)
	require.Equal(t, status.Drain, code)
}

func TestFilterFillsZeroDuration(t *testing.T) {
	p := rtpPacket(10, 1, 0, 0, 1, 0)
	q := queueOf(p)
	f := NewFilter(q, Config{MaxSeqNumJump: 100, MaxTimestampJump: 1e9, SampleRate: 8000})
	f.Decoder = decoderFunc(func(size int) uint32 { return uint32(size / 2) })

	got, code := f.Read(packet.ModeFetch)
	require.Equal(t, status.Ok, code)
	require.Equal(t, uint32(2), got.RTP.Duration)
}

func TestFilterPeekTransparentAndDropsInvalid(t *testing.T) {
	bad := rtpPacket(10, 1, 0, 0, 1, 160)
	bad.Flags = packet.FlagRTP
	good := rtpPacket(10, 1, 1, 160, 2, 160)
	q := queueOf(bad, good)

	f := NewFilter(q, Config{MaxSeqNumJump: 100, MaxTimestampJump: 1e9, SampleRate: 8000})
	p, code := f.Read(packet.ModePeek)
	require.Equal(t, status.Ok, code)
	require.Same(t, good, p)

	p2, code := f.Read(packet.ModePeek)
	require.Equal(t, status.Ok, code)
	require.Same(t, good, p2, "peek does not advance")
}

type decoderFunc func(size int) uint32

func (f decoderFunc) Samples(size int) uint32 { return f(size) }
