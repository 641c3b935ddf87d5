// SPDX-License-Identifier: EPL-2.0

package engine

import "io"

// Stream exposes a Manager as an audio.Reader. Each ReadSamples call is
// one render callback, so a Stream is how the engine is rendered offline
// into an encoder or a MonoMixer. Do not read from a Stream while a device
// is driving the same Manager.
type Stream struct {
	m     *Manager
	limit uint64 // frames, 0 = endless
	done  uint64
}

// NewStream returns a Reader over m. When frames > 0 the stream ends with
// io.EOF after that many frames.
func NewStream(m *Manager, frames uint64) *Stream {
	return &Stream{m: m, limit: frames}
}

func (s *Stream) SampleRate() int { return s.m.SampleRate() }
func (s *Stream) Channels() int   { return Channels }
func (s *Stream) BufSize() int    { return s.m.FramesPerBuffer() * Channels }
func (s *Stream) Close() error    { return nil }

// Frames returns how many frames have been read so far.
func (s *Stream) Frames() uint64 { return s.done }

// ReadSamples renders len(dst)/2 frames, fewer at the frame limit, and
// returns the number of samples written.
func (s *Stream) ReadSamples(dst []float32) (int, error) {
	frames := uint64(len(dst) / Channels)
	if s.limit > 0 {
		if s.done >= s.limit {
			return 0, io.EOF
		}
		frames = min(frames, s.limit-s.done)
	}
	if frames == 0 {
		return 0, nil
	}

	n := s.m.Render(dst[:frames*Channels])
	s.done += uint64(n)

	if s.limit > 0 && s.done >= s.limit {
		return n * Channels, io.EOF
	}
	return n * Channels, nil
}
