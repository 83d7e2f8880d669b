// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2024, Emir Aganovic

package audio

import (
	"encoding/binary"
	"io"

	"github.com/rocstream/roc-go/status"
)

// WavWriter streams interleaved int16 PCM samples to a WAV file,
// rewriting the RIFF header with the final size on Close. Unlike the
// byte-stream sink this was ported from, it takes the module's own
// []int16 sample representation directly, so a session.Pipeline's or
// audio.Mixer's output can be written without manual byte packing.
type WavWriter struct {
	SampleRate  int
	BitDepth    int
	NumChans    int
	AudioFormat int

	W              io.WriteSeeker
	headersWritten bool
	dataSize       int64
}

func NewWavWriter(w io.WriteSeeker) *WavWriter {
	return &WavWriter{
		SampleRate:  8000,
		BitDepth:    16,
		NumChans:    2,
		AudioFormat: 1, // 1 PCM
		dataSize:    0,
		W:           w,
	}
}

// Write appends one frame of interleaved int16 samples, returning
// status.BadInterface if the underlying sink rejects the write (a
// broken/closed file, matching Code's "operation attempted on an
// interface that isn't bound" for a sink that can no longer accept data).
func (ww *WavWriter) Write(samples []int16) (int, status.Code) {
	audio := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(audio[i*2:], uint16(s))
	}

	n, err := ww.writeData(audio)
	ww.dataSize += int64(n)
	if err != nil {
		return n / 2, status.BadInterface
	}
	return n / 2, status.Ok
}

func (ww *WavWriter) writeData(audio []byte) (int, error) {
	w := ww.W
	if ww.headersWritten {
		return w.Write(audio)
	}

	_, err := ww.writeHeader()
	if err != nil {
		return 0, err
	}
	ww.headersWritten = true

	n, err := w.Write(audio)
	return n, err
}

func (ww *WavWriter) writeHeader() (int, error) {
	w := ww.W
	// WAV header constants
	const (
		headerSize   = 44
		fmtChunkSize = 16
	)

	audioFormat := ww.AudioFormat
	numChannels := ww.NumChans
	bitsPerSample := ww.BitDepth
	sampleRate := ww.SampleRate
	// Calculate file size
	fileSize := ww.dataSize + headerSize - 8

	// Create the header
	header := make([]byte, headerSize)
	copy(header[0:4], []byte("RIFF"))
	binary.LittleEndian.PutUint32(header[4:8], uint32(fileSize))
	copy(header[8:12], []byte("WAVE"))

	// fmt subchunk
	copy(header[12:16], []byte("fmt "))
	binary.LittleEndian.PutUint32(header[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(header[20:22], uint16(audioFormat))
	binary.LittleEndian.PutUint16(header[22:24], uint16(numChannels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*bitsPerSample*numChannels/8)) // Byte rate calculation
	binary.LittleEndian.PutUint16(header[32:34], uint16(bitsPerSample*numChannels/8))            // Block align
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitsPerSample))

	// data chunk
	copy(header[36:40], []byte("data"))
	binary.LittleEndian.PutUint32(header[40:44], uint32(ww.dataSize))

	// Combine header and audio payload
	return w.Write(header)
}

// Close finalizes the header with the accumulated data size.
func (ww *WavWriter) Close() status.Code {
	if _, err := ww.W.Seek(0, 0); err != nil {
		return status.BadInterface
	}
	if _, err := ww.writeHeader(); err != nil {
		return status.BadInterface
	}
	return status.Ok
}
