// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2024, Emir Aganovic

package audio

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder dumps a mixed PCM stream to a WAV file, for the "record a
// received session to disk" diagnostic path. Unlike WavWriter (which
// hand-rolls the RIFF header and packs the sample bytes itself), Recorder
// goes through go-audio/wav's Encoder for both, so the int16 frames
// coming out of a session.Pipeline or Mixer are handed over as they are.
type Recorder struct {
	enc      *wav.Encoder
	channels int
}

// NewRecorder opens a WAV encoder over w for interleaved int16 audio at
// sampleRate with the given channel count.
func NewRecorder(w io.WriteSeeker, sampleRate, channels int) *Recorder {
	return &Recorder{
		enc:      wav.NewEncoder(w, sampleRate, 16, channels, 1),
		channels: channels,
	}
}

// Write appends one frame of interleaved int16 samples.
func (r *Recorder) Write(samples []int16) error {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: r.channels, SampleRate: r.enc.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	return r.enc.Write(buf)
}

// Close finalizes the WAV header and flushes the file.
func (r *Recorder) Close() error {
	return r.enc.Close()
}
