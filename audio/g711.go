// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2024, Emir Aganovic

package audio

import (
	"github.com/rocstream/roc-go/status"
	"github.com/zaf/g711"
)

// EncodeULaw encodes interleaved PCM samples to G.711 mu-law, one byte
// per sample.
func EncodeULaw(samples []int16) ([]byte, status.Code) {
	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = g711.EncodeUlawFrame(s)
	}
	return out, status.Ok
}

// DecodeULaw decodes G.711 mu-law into interleaved PCM samples.
func DecodeULaw(ulaw []byte) ([]int16, status.Code) {
	out := make([]int16, len(ulaw))
	for i, b := range ulaw {
		out[i] = g711.DecodeUlawFrame(b)
	}
	return out, status.Ok
}

// EncodeALaw encodes interleaved PCM samples to G.711 a-law, one byte
// per sample.
func EncodeALaw(samples []int16) ([]byte, status.Code) {
	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = g711.EncodeAlawFrame(s)
	}
	return out, status.Ok
}

// DecodeALaw decodes G.711 a-law into interleaved PCM samples.
func DecodeALaw(alaw []byte) ([]int16, status.Code) {
	out := make([]int16, len(alaw))
	for i, b := range alaw {
		out[i] = g711.DecodeAlawFrame(b)
	}
	return out, status.Ok
}
