package rocgo

import (
	"testing"
	"time"

	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/sender"
	"github.com/rocstream/roc-go/slot"
	"github.com/rocstream/roc-go/status"
	"github.com/stretchr/testify/require"
)

type fixedFrames struct {
	samples []int16
	pos     int
}

func (f *fixedFrames) NextFrame(n int) ([]int16, bool) {
	if f.pos >= len(f.samples) {
		return nil, false
	}
	end := f.pos + n
	if end > len(f.samples) {
		end = len(f.samples)
	}
	out := f.samples[f.pos:end]
	f.pos = end
	return out, true
}

var testEncode = sender.EncoderFunc(func(samples []int16) []byte {
	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = byte(s)
	}
	return out
})

func TestSenderPeerActivateWithoutFEC(t *testing.T) {
	ctx := NewContext()
	cfg := DefaultSenderConfig(8000, 1)
	cfg.FECScheme = packet.SchemeNone
	p := NewSenderPeer(ctx, cfg)

	require.Equal(t, status.Ok, p.Bind(1, slot.AudioSource, "rtp://host:100"))

	sourceOut := packet.NewFIFOQueue()
	src := &fixedFrames{samples: []int16{1, 2, 3, 4}}
	ss, code := p.Activate(1, src, testEncode, sourceOut, nil, 0)
	require.Equal(t, status.Ok, code)
	require.Nil(t, ss.BlockWriter)

	require.Equal(t, status.Ok, ss.Pipeline.PushFrame(2, time.Unix(0, 0)))
	_, code2 := sourceOut.Read(packet.ModeFetch)
	require.Equal(t, status.Ok, code2)
}

func TestSenderPeerActivateWithFECWiresBlockWriter(t *testing.T) {
	ctx := NewContext()
	cfg := DefaultSenderConfig(8000, 1)
	cfg.FECBlockSource = 2
	cfg.FECBlockRepair = 1
	p := NewSenderPeer(ctx, cfg)

	require.Equal(t, status.Ok, p.Bind(2, slot.AudioSource, "rtp+rs8m://host:100"))
	require.Equal(t, status.Ok, p.Bind(2, slot.AudioRepair, "rs8m://host:101"))

	sourceOut := packet.NewFIFOQueue()
	repairOut := packet.NewFIFOQueue()
	src := &fixedFrames{samples: []int16{1, 2, 3, 4}}
	ss, code := p.Activate(2, src, testEncode, sourceOut, repairOut, 0)
	require.Equal(t, status.Ok, code)
	require.NotNil(t, ss.BlockWriter)

	// push a full block (2 source packets) and verify the fan-out: both
	// source-flagged packets land in sourceOut, and the resulting repair
	// packet lands in repairOut, not both in repairOut.
	require.Equal(t, status.Ok, ss.Pipeline.PushFrame(1, time.Unix(0, 0)))
	require.Equal(t, status.Ok, ss.Pipeline.PushFrame(1, time.Unix(0, 0)))

	sp1, code := sourceOut.Read(packet.ModeFetch)
	require.Equal(t, status.Ok, code)
	require.False(t, sp1.Flags.Has(packet.FlagRepair))

	sp2, code := sourceOut.Read(packet.ModeFetch)
	require.Equal(t, status.Ok, code)
	require.False(t, sp2.Flags.Has(packet.FlagRepair))

	rp, code := repairOut.Read(packet.ModeFetch)
	require.Equal(t, status.Ok, code)
	require.True(t, rp.Flags.Has(packet.FlagRepair))
}

func TestSenderPeerActivateBeforeBindFails(t *testing.T) {
	ctx := NewContext()
	cfg := DefaultSenderConfig(8000, 1)
	p := NewSenderPeer(ctx, cfg)

	sourceOut := packet.NewFIFOQueue()
	_, code := p.Activate(1, &fixedFrames{}, testEncode, sourceOut, nil, 0)
	require.Equal(t, status.BadInterface, code)
}
