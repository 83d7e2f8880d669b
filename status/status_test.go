package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeString(t *testing.T) {
	cases := map[Code]string{
		Ok:           "ok",
		Drain:        "drain",
		NoData:       "no_data",
		NoMem:        "no_mem",
		BadConfig:    "bad_config",
		BadInterface: "bad_interface",
		Abort:        "abort",
		Code(999):    "unknown",
	}
	for code, want := range cases {
		require.Equal(t, want, code.String())
	}
}

func TestIsFailure(t *testing.T) {
	require.False(t, IsFailure(Ok))
	require.False(t, IsFailure(Drain))
	require.True(t, IsFailure(NoData))
	require.True(t, IsFailure(NoMem))
	require.True(t, IsFailure(BadConfig))
	require.True(t, IsFailure(BadInterface))
	require.True(t, IsFailure(Abort))
}
