package sender

import (
	"testing"
	"time"

	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/rtcpfeedback"
	"github.com/rocstream/roc-go/status"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	samples []int16
	pos     int
}

func (s *sliceSource) NextFrame(n int) ([]int16, bool) {
	if s.pos >= len(s.samples) {
		return nil, false
	}
	end := s.pos + n
	if end > len(s.samples) {
		end = len(s.samples)
	}
	out := s.samples[s.pos:end]
	s.pos = end
	return out, true
}

func TestPipelinePushFrameWithoutFEC(t *testing.T) {
	f := packet.NewFactory(16)
	var got []*packet.Packet
	out := packet.WriterFunc(func(p *packet.Packet) status.Code {
		got = append(got, p)
		return status.Ok
	})

	src := &sliceSource{samples: []int16{1, 2, 3, 4, 5, 6}}
	pzr := NewPacketizer(PacketizerConfig{PayloadType: 11, SSRC: 7, SampleRate: 8000, Channels: 1}, testEncoder, f, nil)
	stats := &rtcpfeedback.Tracker{}

	p := NewPipeline(src, pzr, nil, out, stats, 8000, 0)

	start := time.Unix(0, 0)
	require.Equal(t, status.Ok, p.PushFrame(2, start))
	require.Equal(t, status.Ok, p.PushFrame(2, start))
	require.Equal(t, status.Ok, p.PushFrame(2, start))
	require.Equal(t, status.NoData, p.PushFrame(2, start))

	require.Len(t, got, 3)
	require.Equal(t, uint32(7), got[0].RTP.SSRC)
	require.Equal(t, uint32(3), stats.Write.PacketsCount)
}

func TestPipelineAdvancesCaptureTimestamp(t *testing.T) {
	f := packet.NewFactory(16)
	out := packet.WriterFunc(func(p *packet.Packet) status.Code { return status.Ok })

	src := &sliceSource{samples: []int16{1, 2, 3, 4}}
	pzr := NewPacketizer(PacketizerConfig{PayloadType: 11, SSRC: 1, SampleRate: 8000, Channels: 1}, testEncoder, f, nil)
	stats := &rtcpfeedback.Tracker{}

	p := NewPipeline(src, pzr, nil, out, stats, 8000, 0)
	require.Equal(t, status.Ok, p.PushFrame(2, time.Unix(0, 0)))
	require.Equal(t, int64(250*time.Microsecond), p.captureTS)
}
