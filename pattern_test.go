// SPDX-License-Identifier: EPL-2.0

package rtsfx

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/sources/cached"
	"github.com/ik5/rtsfx/synth"
)

func TestParsePattern(t *testing.T) {
	t.Parallel()

	hits, err := ParsePattern("click@0, beep@250ms:0.5:-1, explosion@100ms:2")
	if err != nil {
		t.Fatalf("ParsePattern() error = %v", err)
	}

	want := []Hit{
		{Kind: synth.Click, At: 0, Amplitude: synth.DefaultClickAmplitude},
		{Kind: synth.Explosion, At: 100 * time.Millisecond, Amplitude: 2},
		{Kind: synth.Beep, At: 250 * time.Millisecond, Amplitude: 0.5, Pan: -1},
	}
	if len(hits) != len(want) {
		t.Fatalf("ParsePattern() = %d hits, want %d", len(hits), len(want))
	}
	for i := range want {
		if hits[i] != want[i] {
			t.Errorf("hit %d = %+v, want %+v", i, hits[i], want[i])
		}
	}
}

func TestParsePattern_KeepsOrderOfTies(t *testing.T) {
	t.Parallel()

	hits, err := ParsePattern("beep@1s,click@1s,explosion@0s")
	if err != nil {
		t.Fatal(err)
	}
	got := []synth.Kind{hits[0].Kind, hits[1].Kind, hits[2].Kind}
	if got[0] != synth.Explosion || got[1] != synth.Beep || got[2] != synth.Click {
		t.Errorf("order = %v, want [explosion beep click]", got)
	}
}

func TestParsePattern_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmptyPattern},
		{" , ", ErrEmptyPattern},
		{"click", ErrInvalidPattern},
		{"boom@0", ErrInvalidPattern},
		{"click@-5ms", ErrInvalidPattern},
		{"click@soon", ErrInvalidPattern},
		{"click@0:loud", ErrInvalidPattern},
		{"click@0:NaN", ErrInvalidPattern},
		{"click@0:1:2", ErrInvalidPattern},
		{"click@0:1:0:9", ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if _, err := ParsePattern(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("ParsePattern(%q) error = %v, want %v", tt.in, err, tt.want)
			}
		})
	}
}

func readAll(t *testing.T, r *PatternReader, chunk int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, chunk)
	for {
		n, err := r.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestPatternReader_PlacesHitsExactly(t *testing.T) {
	t.Parallel()

	const rate = 1000
	hits := []Hit{{Kind: synth.Click, At: 10 * time.Millisecond, Amplitude: 0.5}}
	r, err := NewPatternReader(hits, false, engine.WithSampleRate(rate), engine.WithMasterVolume(1))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	dur := synth.DurationSamples(synth.Click, rate)
	if r.Frames() != 10+dur {
		t.Fatalf("Frames() = %d, want %d", r.Frames(), 10+dur)
	}

	out := readAll(t, r, 7*engine.Channels)
	if uint64(len(out)) != engine.Channels*r.Frames() {
		t.Fatalf("read %d samples, want %d", len(out), engine.Channels*r.Frames())
	}

	for i := range 10 {
		if out[2*i] != 0 || out[2*i+1] != 0 {
			t.Fatalf("frame %d = %v %v before the hit", i, out[2*i], out[2*i+1])
		}
	}
	wf := r.Source().(*cached.Source).Waveform(synth.Click)
	for i := range dur {
		want := wf[i] * 0.5 * 0.5 // amplitude, center pan
		f := 10 + i
		if out[2*f] != want || out[2*f+1] != want {
			t.Fatalf("frame %d = %v %v, want %v", f, out[2*f], out[2*f+1], want)
		}
	}
}

func TestPatternReader_ChunkingDoesNotMatter(t *testing.T) {
	t.Parallel()

	hits, err := ParsePattern("click@0,beep@3ms:0.2:0.5,explosion@17ms:0.8:-0.25,click@17ms")
	if err != nil {
		t.Fatal(err)
	}

	render := func(chunk int) []float32 {
		r, err := NewPatternReader(hits, false, engine.WithSampleRate(8000))
		if err != nil {
			t.Fatal(err)
		}
		return readAll(t, r, chunk)
	}

	whole := render(1 << 16)
	for _, chunk := range []int{2, 6, 128, 1000} {
		got := render(chunk)
		if len(got) != len(whole) {
			t.Fatalf("chunk %d: %d samples, want %d", chunk, len(got), len(whole))
		}
		for i := range whole {
			if got[i] != whole[i] {
				t.Fatalf("chunk %d: sample %d = %v, want %v", chunk, i, got[i], whole[i])
			}
		}
	}
}

func TestPatternReader_ProceduralMatchesCached(t *testing.T) {
	t.Parallel()

	// one noisy hit draws the same noise sequence as the cached table
	hits, _ := ParsePattern("click@0,beep@5ms:0.3:1,beep@7ms")

	c, err := NewPatternReader(hits, false, engine.WithSampleRate(8000))
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPatternReader(hits, true, engine.WithSampleRate(8000))
	if err != nil {
		t.Fatal(err)
	}

	a, b := readAll(t, c, 512), readAll(t, p, 512)
	if len(a) != len(b) {
		t.Fatalf("lengths %d and %d differ", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d: cached %v, procedural %v", i, a[i], b[i])
		}
	}

	st := p.Source().(interface{ Stats() audio.PlaybackStats }).Stats()
	if st.InstancesStarted != 3 || st.InstancesFinished != 3 {
		t.Errorf("stats = %+v, want 3 started and 3 finished", st)
	}
}

func TestNewPatternReader_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewPatternReader(nil, false); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("empty error = %v, want ErrEmptyPattern", err)
	}
	hits := []Hit{{Kind: synth.Beep}}
	if _, err := NewPatternReader(hits, false, engine.WithSampleRate(0)); !errors.Is(err, engine.ErrInvalidSampleRate) {
		t.Errorf("bad rate error = %v, want ErrInvalidSampleRate", err)
	}
}
