// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2024, Emir Aganovic

package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMixerSumsMultipleFrames(t *testing.T) {
	m := NewMixer(1)
	out := m.Mix(3, [][]int16{
		{100, 200, 300},
		{10, 20, 30},
	})
	require.Equal(t, []int16{110, 220, 330}, out)
}

func TestMixerClampsOnOverflow(t *testing.T) {
	m := NewMixer(1)
	out := m.Mix(1, [][]int16{{30000}, {30000}})
	require.Equal(t, []int16{32767}, out)
}

func TestMixerClampsOnUnderflow(t *testing.T) {
	m := NewMixer(1)
	out := m.Mix(1, [][]int16{{-30000}, {-30000}})
	require.Equal(t, []int16{-32768}, out)
}

func TestMixerTreatsShortFrameTailAsSilence(t *testing.T) {
	m := NewMixer(1)
	out := m.Mix(3, [][]int16{{10, 20}, {1, 1, 1}})
	require.Equal(t, []int16{11, 21, 1}, out)
}

func TestMixerNoFramesYieldsSilence(t *testing.T) {
	m := NewMixer(2)
	out := m.Mix(2, nil)
	require.Equal(t, []int16{0, 0, 0, 0}, out)
}
