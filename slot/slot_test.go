package slot

import (
	"testing"

	"github.com/rocstream/roc-go/status"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) Endpoint {
	ep, err := ParseEndpoint(raw)
	require.NoError(t, err)
	return ep
}

func TestSlotCompleteWithoutFECNeedsOnlySource(t *testing.T) {
	s := newSlot(1, false)
	require.False(t, s.Complete())

	code := s.Bind(AudioSource, mustParse(t, "rtp://host:100"))
	require.Equal(t, status.Ok, code)
	require.True(t, s.Complete())
}

func TestSlotCompleteWithFECNeedsBothMatchingScheme(t *testing.T) {
	s := newSlot(1, true)

	require.Equal(t, status.Ok, s.Bind(AudioSource, mustParse(t, "rtp+rs8m://host:100")))
	require.False(t, s.Complete())

	require.Equal(t, status.Ok, s.Bind(AudioRepair, mustParse(t, "rs8m://host:101")))
	require.True(t, s.Complete())
}

func TestSlotBreaksOnSchemeMismatch(t *testing.T) {
	s := newSlot(1, true)

	require.Equal(t, status.Ok, s.Bind(AudioSource, mustParse(t, "rtp+rs8m://host:100")))
	code := s.Bind(AudioRepair, mustParse(t, "ldpc://host:101"))
	require.Equal(t, status.BadConfig, code)

	broken, reason := s.Broken()
	require.True(t, broken)
	require.NotEmpty(t, reason)
	require.False(t, s.Complete())
}

func TestSlotBreaksOnConfigureAfterBind(t *testing.T) {
	s := newSlot(1, false)
	require.Equal(t, status.Ok, s.Bind(AudioSource, mustParse(t, "rtp://host:100")))

	code := s.Configure(AudioSource, InterfaceConfig{Reuse: true})
	require.Equal(t, status.BadConfig, code)

	broken, _ := s.Broken()
	require.True(t, broken)
}

func TestSlotConfigureBeforeBindSucceeds(t *testing.T) {
	s := newSlot(1, false)
	require.Equal(t, status.Ok, s.Configure(AudioSource, InterfaceConfig{Reuse: true}))
	require.Equal(t, status.Ok, s.Bind(AudioSource, mustParse(t, "rtp://host:100")))
}

func TestSlotBrokenRejectsFurtherBinds(t *testing.T) {
	s := newSlot(1, true)
	require.Equal(t, status.Ok, s.Bind(AudioSource, mustParse(t, "rtp+rs8m://host:100")))
	require.Equal(t, status.BadConfig, s.Bind(AudioRepair, mustParse(t, "ldpc://host:101")))

	code := s.Bind(AudioControl, mustParse(t, "rtcp://host:102"))
	require.Equal(t, status.BadInterface, code)
}

func TestSlotAudioInterfaceRejectsNonRTPEndpoint(t *testing.T) {
	s := newSlot(1, false)
	code := s.Bind(AudioSource, mustParse(t, "rtcp://host:100"))
	require.Equal(t, status.BadConfig, code)
}

func TestSlotControlInterfaceRejectsNonRTCPEndpoint(t *testing.T) {
	s := newSlot(1, false)
	code := s.Bind(AudioControl, mustParse(t, "rtp://host:100"))
	require.Equal(t, status.BadConfig, code)
}

func TestSlotHasControl(t *testing.T) {
	s := newSlot(1, false)
	require.False(t, s.HasControl())
	require.Equal(t, status.Ok, s.Bind(AudioControl, mustParse(t, "rtcp://host:100")))
	require.True(t, s.HasControl())
}

func TestSlotEndpointLookup(t *testing.T) {
	s := newSlot(1, false)
	ep := mustParse(t, "rtp://host:100")
	require.Equal(t, status.Ok, s.Bind(AudioSource, ep))

	got, ok := s.Endpoint(AudioSource)
	require.True(t, ok)
	require.Equal(t, ep.Host, got.Host)

	_, ok = s.Endpoint(AudioRepair)
	require.False(t, ok)
}
