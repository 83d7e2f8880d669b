// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2024, Emir Aganovic

package audio

import (
	"encoding/binary"
	"io"

	"github.com/go-audio/riff"
	"github.com/rocstream/roc-go/status"
)

type WavReader struct {
	riff.Parser
	chunkData *riff.Chunk
	DataSize  int
}

func NewWavReader(r io.Reader) *WavReader {
	parser := riff.New(r)
	reader := WavReader{Parser: *parser}
	return &reader
}

// ReadHeaders reads until data chunk
func (r *WavReader) ReadHeaders() error {
	if err := r.readHeaders(); err != nil {
		return err
	}

	return r.readDataChunk()
}

func (r *WavReader) readHeaders() error {
	if err := r.Parser.ParseHeaders(); err != nil {
		return err
	}
	for {
		chunk, err := r.NextChunk()
		if err != nil {
			return err
		}

		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}
		return chunk.DecodeWavHeader(&r.Parser)
	}
}

func (r *WavReader) readDataChunk() error {
	// if r.Size == 0 {
	// 	r.Parser.ParseHeaders()
	// }

	for {
		chunk, err := r.NextChunk()
		if err != nil {
			return err
		}

		if chunk.ID != riff.DataFormatID {
			chunk.Drain()
			continue
		}
		r.chunkData = chunk
		r.DataSize = chunk.Size
		return nil
	}
}

// ReadSamples decodes the next interleaved int16 PCM samples from the
// data chunk into buf, returning how many were filled. status.NoData
// signals a clean end of the data chunk; status.BadInterface signals any
// other read failure on the underlying file.
func (r *WavReader) ReadSamples(buf []int16) (int, status.Code) {
	raw := make([]byte, len(buf)*2)
	n, err := r.readBytes(raw)
	if err != nil && err != io.EOF {
		return 0, status.BadInterface
	}

	samples := n / 2
	for i := 0; i < samples; i++ {
		buf[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	if err == io.EOF && samples == 0 {
		return 0, status.NoData
	}
	return samples, status.Ok
}

func (r *WavReader) readBytes(buf []byte) (n int, err error) {
	if r.chunkData != nil {
		return r.chunkData.Read(buf)
	}

	if err := r.readDataChunk(); err != nil {
		return 0, err
	}
	return r.chunkData.Read(buf)
}
