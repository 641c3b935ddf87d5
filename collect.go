// SPDX-License-Identifier: EPL-2.0

package rtsfx

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/utils"
)

// CollectPCM16 drains r into interleaved 16-bit PCM. Reading stops at
// io.EOF or, when frames > 0, once that many frames have been collected,
// which is required for endless readers such as an engine.Stream without a
// limit. bufSize <= 0 uses r.BufSize().
//
// Example:
//
//	stream := engine.NewStream(m, 0)
//	pcm, err := rtsfx.CollectPCM16(audio.NewMonoMixer(stream), 44100, 0)
//	// pcm holds one second of mono 16-bit audio
func CollectPCM16(r audio.Reader, frames uint64, bufSize int) ([]int16, error) {
	channels := r.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidReader, channels)
	}
	if bufSize <= 0 {
		bufSize = r.BufSize()
	}
	if bufSize < channels {
		bufSize = 4096
	}
	bufSize -= bufSize % channels

	var pcm []int16
	if frames > 0 {
		pcm = make([]int16, 0, frames*uint64(channels))
	} else {
		pcm = make([]int16, 0, r.SampleRate()*channels) // a second to start
	}
	buf := make([]float32, bufSize)

	for {
		want := len(buf)
		if frames > 0 {
			left := frames*uint64(channels) - uint64(len(pcm))
			if left == 0 {
				return pcm, nil
			}
			want = int(min(uint64(want), left))
		}

		n, err := r.ReadSamples(buf[:want])
		if n > 0 {
			start := len(pcm)
			pcm = append(pcm, make([]int16, n)...)
			utils.Float32sToInt16(pcm[start:], buf[:n])
		}

		if errors.Is(err, io.EOF) {
			return pcm, nil
		}
		if err != nil {
			return pcm, fmt.Errorf("collect PCM: %w", err)
		}
	}
}
