// SPDX-License-Identifier: EPL-2.0

package cached

import (
	"testing"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/sources/procedural"
	"github.com/ik5/rtsfx/synth"
)

var (
	_ audio.Source        = (*Source)(nil)
	_ audio.StatsReporter = (*Source)(nil)
)

const rate = 44100

func TestNew_Tables(t *testing.T) {
	t.Parallel()

	s, err := New(rate)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, k := range synth.Kinds() {
		got := s.Waveform(k)
		want := synth.Waveform(k, rate, synth.NewSeededNoise(synth.CacheSeed))
		if len(got) != len(want) {
			t.Fatalf("len(Waveform(%v)) = %d, want %d", k, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Waveform(%v)[%d] = %v, want %v", k, i, got[i], want[i])
			}
		}
	}

	if s.Waveform(synth.KindCount) != nil {
		t.Error("Waveform(invalid) != nil")
	}
}

func TestNew_Deterministic(t *testing.T) {
	t.Parallel()

	a, _ := New(rate)
	b, _ := New(rate)
	c, _ := New(rate, WithSeed(45))

	wa, wb, wc := a.Waveform(synth.Click), b.Waveform(synth.Click), c.Waveform(synth.Click)
	differs := false
	for i := range wa {
		if wa[i] != wb[i] {
			t.Fatalf("click tables differ at %d", i)
		}
		if wa[i] != wc[i] {
			differs = true
		}
	}
	if !differs {
		t.Error("WithSeed(45) produced the default table")
	}
}

func TestWaveform_ReturnsCopy(t *testing.T) {
	t.Parallel()

	s, _ := New(rate)
	w := s.Waveform(synth.Beep)
	orig := w[100]
	w[100] = 42

	if got := s.Waveform(synth.Beep)[100]; got != orig {
		t.Errorf("table mutated through Waveform: %v", got)
	}
}

func TestSource_PlaysTable(t *testing.T) {
	t.Parallel()

	s, _ := New(rate)
	table := s.Waveform(synth.Explosion)

	s.TriggerExplosion(0.8, 0, 1)
	left := make([]float32, 22100)
	right := make([]float32, 22100)
	s.GenerateSamples(left, right)

	for i := range table {
		if left[i] != 0 {
			t.Fatalf("left[%d] = %v with pan fully right", i, left[i])
		}
		if want := table[i] * 0.8; right[i] != want {
			t.Fatalf("right[%d] = %v, want %v", i, right[i], want)
		}
	}
	for i := len(table); i < len(right); i++ {
		if right[i] != 0 {
			t.Fatalf("right[%d] = %v after the explosion ended", i, right[i])
		}
	}
}

// Live synthesis fed the cache seed reproduces the cached table exactly.
func TestSource_MatchesSeededProcedural(t *testing.T) {
	t.Parallel()

	c, _ := New(rate)
	p, err := procedural.New(rate, procedural.WithNoise(synth.NewSeededNoise(synth.CacheSeed)))
	if err != nil {
		t.Fatal(err)
	}

	c.Click()
	p.Click()

	cl, cr := make([]float32, 512), make([]float32, 512)
	pl, pr := make([]float32, 512), make([]float32, 512)
	c.GenerateSamples(cl, cr)
	p.GenerateSamples(pl, pr)

	for i := range cl {
		if cl[i] != pl[i] || cr[i] != pr[i] {
			t.Fatalf("frame %d: cached (%v,%v) procedural (%v,%v)", i, cl[i], cr[i], pl[i], pr[i])
		}
	}
}

func TestSource_Stats(t *testing.T) {
	t.Parallel()

	s, _ := New(rate)
	s.Click()
	s.Beep()

	left := make([]float32, 1000)
	right := make([]float32, 1000)
	s.GenerateSamples(left, right)

	st := s.Stats()
	if st.TriggersQueued != 2 || st.InstancesStarted != 2 || st.InstancesFinished != 1 || st.Active != 1 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestSource_NoAllocs(t *testing.T) {
	s, _ := New(rate)
	left := make([]float32, 256)
	right := make([]float32, 256)

	allocs := testing.AllocsPerRun(200, func() {
		s.Beep()
		s.GenerateSamples(left, right)
	})
	if allocs != 0 {
		t.Errorf("allocs = %v, want 0", allocs)
	}
}
