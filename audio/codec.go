// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2024, Emir Aganovic

package audio

import (
	"encoding/binary"

	"github.com/rocstream/roc-go/sender"
	"github.com/rocstream/roc-go/session"
)

// L16Codec implements session.Decoder and sender.Encoder for the built-in
// L16 (linear 16-bit, big-endian per RFC 3551) payload format.
type L16Codec struct{}

func (L16Codec) Decode(payload []byte) []int16 {
	n := len(payload) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.BigEndian.Uint16(payload[i*2:]))
	}
	return out
}

func (L16Codec) Encode(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.BigEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

var (
	_ session.Decoder = L16Codec{}
	_ sender.Encoder  = L16Codec{}
)

// ULawCodec implements session.Decoder and sender.Encoder for G.711 u-law,
// built directly on EncodeULaw/DecodeULaw.
type ULawCodec struct{}

func (ULawCodec) Decode(payload []byte) []int16 {
	samples, _ := DecodeULaw(payload)
	return samples
}

func (ULawCodec) Encode(samples []int16) []byte {
	out, _ := EncodeULaw(samples)
	return out
}

var (
	_ session.Decoder = ULawCodec{}
	_ sender.Encoder  = ULawCodec{}
)

// ALawCodec implements session.Decoder and sender.Encoder for G.711 a-law,
// built directly on EncodeALaw/DecodeALaw.
type ALawCodec struct{}

func (ALawCodec) Decode(payload []byte) []int16 {
	samples, _ := DecodeALaw(payload)
	return samples
}

func (ALawCodec) Encode(samples []int16) []byte {
	out, _ := EncodeALaw(samples)
	return out
}

var (
	_ session.Decoder = ALawCodec{}
	_ sender.Encoder  = ALawCodec{}
)
