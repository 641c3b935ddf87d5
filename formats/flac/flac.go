// SPDX-License-Identifier: EPL-2.0

// Package flac writes 16-bit FLAC streams from an audio.Reader using
// github.com/mewkiz/flac.
package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/utils"
)

const (
	// BlockSize is the number of frames per FLAC block.
	BlockSize     = 4096
	bitsPerSample = 16
)

var (
	ErrInvalidSampleRate   = errors.New("invalid sample rate")
	ErrUnsupportedChannels = errors.New("only mono and stereo are supported")
)

// Encode streams r into w until r reports io.EOF or, when frames > 0,
// until that many frames are written, and returns the frame count.
// When w is also an io.Seeker the stream info block is rewritten with the
// final sample count and checksum. The encoder closes w if it is an
// io.Closer.
func Encode(w io.Writer, r audio.Reader, frames uint64) (uint64, error) {
	rate, channels := r.SampleRate(), r.Channels()
	if rate <= 0 || rate >= 1<<20 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSampleRate, rate)
	}
	var layout frame.Channels
	switch channels {
	case 1:
		layout = frame.ChannelsMono
	case 2:
		layout = frame.ChannelsLR
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  BlockSize,
		BlockSizeMax:  BlockSize,
		SampleRate:    uint32(rate),
		NChannels:     uint8(channels),
		BitsPerSample: bitsPerSample,
	}
	enc, err := flac.NewEncoder(w, info)
	if err != nil {
		return 0, fmt.Errorf("create FLAC encoder: %w", err)
	}
	enc.EnablePredictionAnalysis(true)

	in := make([]float32, BlockSize*channels)
	planes := make([][]int32, channels)
	for ch := range channels {
		planes[ch] = make([]int32, BlockSize)
	}

	var written, blocks uint64
	var filled int
	flush := func() error {
		if filled == 0 {
			return nil
		}
		// prediction analysis rewrites subframe headers, so each frame
		// starts from fresh verbatim subframes
		subframes := make([]*frame.Subframe, channels)
		for ch := range channels {
			subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   planes[ch][:filled],
				NSamples:  filled,
			}
		}
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(filled),
				SampleRate:        uint32(rate),
				Channels:          layout,
				BitsPerSample:     bitsPerSample,
				Num:               blocks,
			},
			Subframes: subframes,
		}
		if err := enc.WriteFrame(f); err != nil {
			return fmt.Errorf("write FLAC frame: %w", err)
		}
		written += uint64(filled)
		blocks++
		filled = 0
		return nil
	}

	for frames == 0 || written+uint64(filled) < frames {
		want := (BlockSize - filled) * channels
		if frames > 0 {
			want = int(min(uint64(want), (frames-written-uint64(filled))*uint64(channels)))
		}

		n, rerr := r.ReadSamples(in[:want])
		n -= n % channels
		for i := 0; i < n; i += channels {
			for ch := range channels {
				planes[ch][filled] = int32(utils.Float32ToInt16(in[i+ch]))
			}
			filled++
		}
		if filled == BlockSize {
			if err := flush(); err != nil {
				return written, err
			}
		}

		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return written, fmt.Errorf("read samples: %w", rerr)
		}
	}

	if err := flush(); err != nil {
		return written, err
	}
	if err := enc.Close(); err != nil {
		return written, fmt.Errorf("finish FLAC: %w", err)
	}
	return written, nil
}
