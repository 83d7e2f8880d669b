package slot

import (
	"testing"

	"github.com/rocstream/roc-go/packet"
	"github.com/stretchr/testify/require"
)

func TestParseEndpointRTP(t *testing.T) {
	ep, err := ParseEndpoint("rtp://239.1.2.3:4000")
	require.NoError(t, err)
	require.Equal(t, ProtoRTP, ep.Proto)
	require.Equal(t, packet.SchemeNone, ep.FECScheme)
	require.Equal(t, "239.1.2.3", ep.Host)
	require.Equal(t, 4000, ep.Port)
	require.True(t, ep.HasPort)
}

func TestParseEndpointRS8MCombinedScheme(t *testing.T) {
	ep, err := ParseEndpoint("rtp+rs8m://example.com:10001")
	require.NoError(t, err)
	require.Equal(t, ProtoRTP, ep.Proto)
	require.Equal(t, packet.SchemeRS8M, ep.FECScheme)
}

func TestParseEndpointLDPCRepairOnly(t *testing.T) {
	ep, err := ParseEndpoint("ldpc://example.com:10002")
	require.NoError(t, err)
	require.Equal(t, packet.SchemeLDPC, ep.FECScheme)
}

func TestParseEndpointRTCP(t *testing.T) {
	ep, err := ParseEndpoint("rtcp://example.com:10003")
	require.NoError(t, err)
	require.Equal(t, ProtoRTCP, ep.Proto)
}

func TestParseEndpointIPv6(t *testing.T) {
	ep, err := ParseEndpoint("rtp://[::1]:5000")
	require.NoError(t, err)
	require.Equal(t, "::1", ep.Host)
	require.Equal(t, 5000, ep.Port)
}

func TestParseEndpointNoPort(t *testing.T) {
	ep, err := ParseEndpoint("rtcp://example.com")
	require.NoError(t, err)
	require.False(t, ep.HasPort)
	require.Equal(t, "example.com:7000", ep.Addr(7000))
}

func TestParseEndpointUnknownScheme(t *testing.T) {
	_, err := ParseEndpoint("http://example.com")
	require.Error(t, err)
}

func TestParseEndpointNoHost(t *testing.T) {
	_, err := ParseEndpoint("rtp://")
	require.Error(t, err)
}
