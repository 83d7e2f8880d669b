package sender

import (
	"testing"

	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/status"
	"github.com/stretchr/testify/require"
)

type countingSeq struct{ n uint16 }

func (c *countingSeq) NextSeqNumber() uint16 {
	c.n++
	return c.n
}

var testEncoder = EncoderFunc(func(samples []int16) []byte {
	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = byte(s)
	}
	return out
})

func TestPacketizerStampsSequenceAndTimestamp(t *testing.T) {
	f := packet.NewFactory(16)
	var got []*packet.Packet
	out := packet.WriterFunc(func(p *packet.Packet) status.Code {
		got = append(got, p)
		return status.Ok
	})

	pzr := &Packetizer{
		Cfg:     PacketizerConfig{PayloadType: 11, SSRC: 42, SampleRate: 8000, Channels: 1},
		Encoder: testEncoder,
		Factory: f,
		Output:  out,
		seq:     &countingSeq{},
	}

	require.Equal(t, status.Ok, pzr.WriteFrame([]int16{1, 2, 3, 4}, 1000))
	require.Equal(t, status.Ok, pzr.WriteFrame([]int16{5, 6}, 2000))

	require.Len(t, got, 2)
	require.Equal(t, uint16(1), got[0].RTP.SeqNum)
	require.Equal(t, uint16(2), got[1].RTP.SeqNum)
	require.Equal(t, uint32(0), got[0].RTP.StreamTS)
	require.Equal(t, uint32(4), got[1].RTP.StreamTS)
	require.Equal(t, uint32(4), got[0].RTP.Duration)
	require.Equal(t, uint32(2), got[1].RTP.Duration)
	require.True(t, got[0].Flags.Has(packet.FlagRTP))
	require.True(t, got[0].Flags.Has(packet.FlagAudio))
}

func TestPacketizerZeroChannelsIsBadConfig(t *testing.T) {
	f := packet.NewFactory(4)
	pzr := &Packetizer{
		Cfg:     PacketizerConfig{Channels: 0},
		Encoder: testEncoder,
		Factory: f,
		Output:  packet.WriterFunc(func(p *packet.Packet) status.Code { return status.Ok }),
		seq:     &countingSeq{},
	}
	require.Equal(t, status.BadConfig, pzr.WriteFrame([]int16{1, 2}, 0))
}
