// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	gowav "github.com/go-audio/wav"
	"github.com/mewkiz/flac"

	"github.com/ik5/rtsfx"
	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/sources/cached"
	"github.com/ik5/rtsfx/sources/tone"
	"github.com/ik5/rtsfx/synth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSoundsCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "sounds")
	if err != nil {
		t.Fatalf("sounds error = %v", err)
	}
	for _, want := range []string{"click", "10ms", "beep", "100ms", "explosion", "500ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand_WAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hit.wav")
	_, err := run(t, "render", "--sample-rate", "8000", "-o", path, "click@0,beep@50ms:0.5:1")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d := gowav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	// the beep ends 150 ms in
	if d.SampleRate != 8000 || d.NumChans != 2 || len(buf.Data) != 2*1200 {
		t.Errorf("decoded %d Hz, %d ch, %d samples; want 8000, 2, 2400", d.SampleRate, d.NumChans, len(buf.Data))
	}
}

func TestRenderCommand_MonoFLAC(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "boom.flac")
	_, err := run(t, "render", "--sample-rate", "8000", "--source", "procedural", "--mono", "-o", path, "explosion@0")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}

	stream, err := flac.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	defer stream.Close()
	if stream.Info.NChannels != 1 || stream.Info.SampleRate != 8000 {
		t.Errorf("stream info = %+v", stream.Info)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"format", []string{"render", "-o", filepath.Join(dir, "x.mp3"), "click@0"}, errUnknownFormat},
		{"pattern", []string{"render", "-o", filepath.Join(dir, "x.wav"), "click"}, rtsfx.ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := run(t, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := run(t, "render", "--master-volume", "3", "click@0"); err == nil {
		t.Error("render accepted master volume 3")
	}
}

func newTestModel(t *testing.T) (playModel, *engine.Manager, *cached.Source, *tone.Source) {
	t.Helper()

	m, err := engine.New(engine.WithSampleRate(8000), engine.WithFramesPerBuffer(64))
	if err != nil {
		t.Fatal(err)
	}
	fx, err := cached.New(8000)
	if err != nil {
		t.Fatal(err)
	}
	tn, err := tone.New(8000)
	if err != nil {
		t.Fatal(err)
	}
	m.AddSource(fx)
	m.AddSource(tn)
	return newPlayModel(m, fx, tn, newLogBuffer(4)), m, fx, tn
}

func press(p playModel, keys ...tea.KeyMsg) playModel {
	for _, k := range keys {
		next, _ := p.Update(k)
		p = next.(playModel)
	}
	return p
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestPlayModel_Triggers(t *testing.T) {
	t.Parallel()

	p, _, fx, _ := newTestModel(t)
	p = press(p, runes("c"), runes("b"), runes("e"))

	if got := fx.Stats().TriggersQueued; got != 3 {
		t.Errorf("TriggersQueued = %d, want 3", got)
	}
	if p.last != synth.Explosion.String() {
		t.Errorf("last = %q, want explosion", p.last)
	}
}

func TestPlayModel_VolumeAndPan(t *testing.T) {
	t.Parallel()

	p, m, _, tn := newTestModel(t)
	p = press(p, runes("+"), runes("+"), tea.KeyMsg{Type: tea.KeyLeft})

	if p.master != 0.6 {
		t.Errorf("master = %v, want 0.6", p.master)
	}
	if p.pan != -panStep || tn.Pan() != -panStep {
		t.Errorf("pan = %v, tone pan = %v; want %v", p.pan, tn.Pan(), -panStep)
	}

	m.Render(make([]float32, 2*64))
	if m.MasterVolume() != 0.6 {
		t.Errorf("engine master = %v, want 0.6", m.MasterVolume())
	}

	for range 30 {
		p = press(p, runes("-"))
	}
	if p.master != 0 {
		t.Errorf("master = %v after many presses, want 0", p.master)
	}
}

func TestPlayModel_ToneLifecycle(t *testing.T) {
	t.Parallel()

	p, m, _, tn := newTestModel(t)
	buf := make([]float32, 2*64)

	steps := []struct {
		key  string
		want tone.State
	}{
		{"t", tone.Playing},
		{"t", tone.Paused},
		{"t", tone.Playing},
		{"s", tone.Stopped},
	}
	for _, st := range steps {
		p = press(p, runes(st.key))
		m.Render(buf)
		if tn.State() != st.want {
			t.Fatalf("after %q state = %v, want %v", st.key, tn.State(), st.want)
		}
	}
}

func TestPlayModel_QuitAndView(t *testing.T) {
	t.Parallel()

	p, _, _, _ := newTestModel(t)
	_, cmd := p.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}

	p.logs.Write([]byte("12:00:00 INF engine initialized\n"))
	next, _ := p.Update(tickMsg{})
	view := next.(playModel).View()
	for _, want := range []string{"master", "0.50", "engine initialized", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLogBuffer(t *testing.T) {
	t.Parallel()

	b := newLogBuffer(2)
	b.Write([]byte("one\n"))
	b.Write([]byte("two\nthree\n\n"))

	got := b.Lines()
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Errorf("Lines() = %q, want [two three]", got)
	}
}

func TestPanBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pan  float32
		want string
	}{
		{-1, "L ●──────── R  -1.00"},
		{0, "L ────●──── R  +0.00"},
		{1, "L ────────● R  +1.00"},
	}
	for _, tt := range tests {
		if got := panBar(tt.pan); got != tt.want {
			t.Errorf("panBar(%v) = %q, want %q", tt.pan, got, tt.want)
		}
	}
}
