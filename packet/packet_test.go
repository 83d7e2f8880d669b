package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	f := FlagRTP.With(FlagAudio)
	require.True(t, f.Has(FlagRTP))
	require.True(t, f.Has(FlagAudio))
	require.False(t, f.Has(FlagRepair))

	f = f.Without(FlagAudio)
	require.False(t, f.Has(FlagAudio))
	require.True(t, f.Any(FlagRTP | FlagRepair))
}

func TestPacketValidate(t *testing.T) {
	p := &Packet{Flags: FlagAudio}
	require.False(t, p.Validate(), "Audio without RTP must be invalid")

	p = &Packet{Flags: FlagRTP | FlagAudio}
	require.True(t, p.Validate())

	p = &Packet{Flags: FlagRTP | FlagRestored | FlagPrepared}
	require.False(t, p.Validate(), "Restored packet must not carry an FEC view")
}

func TestPacketClone(t *testing.T) {
	p := &Packet{
		Flags: FlagRTP | FlagAudio,
		RTP:   RTPView{Payload: []byte{1, 2, 3}},
	}
	c := p.Clone()
	c.RTP.Payload[0] = 99
	require.Equal(t, byte(1), p.RTP.Payload[0], "clone must not alias backing storage")
}

func TestFactoryRefCounting(t *testing.T) {
	f := NewFactory(2)
	f.EnablePanicOnLeak()
	defer f.Close()

	p1, err := f.New()
	require.NoError(t, err)
	p2, err := f.New()
	require.NoError(t, err)

	_, err = f.New()
	require.Error(t, err, "factory should report NoMem at its bound")

	f.Ref(p1)
	f.Release(p1)
	require.EqualValues(t, 2, f.NumAllocations())
	f.Release(p1)
	require.EqualValues(t, 1, f.NumAllocations())

	f.Release(p2)
	require.EqualValues(t, 0, f.NumAllocations())
}

func TestFactoryOverRelease(t *testing.T) {
	f := NewFactory(0)
	p, err := f.New()
	require.NoError(t, err)
	f.Release(p)
	require.Panics(t, func() { f.Release(p) })
}
