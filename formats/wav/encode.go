// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/utils"
)

const pcmFormat = 1

// StreamWriter appends 16-bit PCM to a WAV file as it arrives. The header
// sizes are patched in through the io.WriteSeeker on Close.
type StreamWriter struct {
	enc      *gowav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	frames   uint64
}

// NewStreamWriter starts a WAV stream on ws. Nothing is written until the
// first Write.
func NewStreamWriter(ws io.WriteSeeker, sampleRate, channels int) (*StreamWriter, error) {
	if err := validate(sampleRate, channels); err != nil {
		return nil, err
	}
	return &StreamWriter{
		enc: gowav.NewEncoder(ws, sampleRate, bitsPerSample, channels, pcmFormat),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitsPerSample,
		},
		channels: channels,
	}, nil
}

// Write appends interleaved samples, which must be whole frames.
func (w *StreamWriter) Write(samples []int16) error {
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channels", ErrPartialFrame, len(samples), w.channels)
	}
	if len(samples) == 0 {
		return nil
	}
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = int(s)
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("encode WAV: %w", err)
	}
	w.frames += uint64(len(samples) / w.channels)
	return nil
}

// Frames returns how many frames have been written.
func (w *StreamWriter) Frames() uint64 { return w.frames }

// Close finishes the header. It does not close the underlying writer.
func (w *StreamWriter) Close() error {
	if w.frames == 0 {
		// the encoder writes its header on the first Write
		w.buf.Data = w.buf.Data[:0]
		if err := w.enc.Write(w.buf); err != nil {
			return fmt.Errorf("encode WAV: %w", err)
		}
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finish WAV: %w", err)
	}
	return nil
}

// Encode streams r into ws until r reports io.EOF or, when frames > 0,
// until that many frames are written, and returns the frame count. ws is
// not closed.
func Encode(ws io.WriteSeeker, r audio.Reader, frames uint64) (uint64, error) {
	channels := r.Channels()
	sw, err := NewStreamWriter(ws, r.SampleRate(), channels)
	if err != nil {
		return 0, err
	}

	bufSize := r.BufSize()
	if bufSize < channels {
		bufSize = chunkSamples
	}
	bufSize -= bufSize % channels

	fbuf := make([]float32, bufSize)
	pcm := make([]int16, bufSize)

	for frames == 0 || sw.Frames() < frames {
		want := len(fbuf)
		if frames > 0 {
			want = int(min(uint64(want), (frames-sw.Frames())*uint64(channels)))
		}

		n, rerr := r.ReadSamples(fbuf[:want])
		n -= n % channels
		if n > 0 {
			utils.Float32sToInt16(pcm, fbuf[:n])
			if err := sw.Write(pcm[:n]); err != nil {
				return sw.Frames(), err
			}
		}

		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return sw.Frames(), fmt.Errorf("read samples: %w", rerr)
		}
	}

	if err := sw.Close(); err != nil {
		return sw.Frames(), err
	}
	return sw.Frames(), nil
}
