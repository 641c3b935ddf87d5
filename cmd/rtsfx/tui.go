// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/rtsfx"
	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/sources/tone"
	"github.com/ik5/rtsfx/synth"
)

const (
	uiRefresh  = 100 * time.Millisecond
	panStep    = 0.25
	volumeStep = 0.05
	jitterMs   = 10
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	logStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(uiRefresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// playModel is the keyboard front end of a running engine. It only talks
// to the engine through its thread-safe enqueue methods and source
// triggers.
type playModel struct {
	m    *engine.Manager
	fx   rtsfx.Triggerer
	tone *tone.Source
	logs *logBuffer

	pan    float32
	master float32
	jitter bool
	last   string

	stats   engine.Stats
	fxStats audio.PlaybackStats
	lines   []string
}

func newPlayModel(m *engine.Manager, fx rtsfx.Triggerer, tn *tone.Source, logs *logBuffer) playModel {
	return playModel{
		m:      m,
		fx:     fx,
		tone:   tn,
		logs:   logs,
		master: m.MasterVolume(),
	}
}

func (p playModel) Init() tea.Cmd { return tick() }

func (p playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.key(msg.String())

	case tickMsg:
		p.refresh()
		return p, tick()
	}
	return p, nil
}

func (p playModel) key(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "q", "esc", "ctrl+c":
		return p, tea.Quit

	case "c":
		p.trigger(synth.Click)
	case "b":
		p.trigger(synth.Beep)
	case "e":
		p.trigger(synth.Explosion)

	case "left", "h":
		p.pan = max(p.pan-panStep, -1)
		p.tone.SetPan(p.pan)
	case "right", "l":
		p.pan = min(p.pan+panStep, 1)
		p.tone.SetPan(p.pan)

	case "+", "=", "up":
		p.setMaster(p.master + volumeStep)
	case "-", "down":
		p.setMaster(p.master - volumeStep)

	case "j":
		p.jitter = !p.jitter

	case "t":
		switch p.tone.State() {
		case tone.Playing:
			p.m.PauseSource(p.tone)
		case tone.Paused:
			p.m.ResumeSource(p.tone)
		default:
			p.m.StartSource(p.tone)
		}
	case "s":
		p.m.StopSource(p.tone)
	}
	return p, nil
}

func (p *playModel) trigger(kind synth.Kind) {
	var j float32
	if p.jitter {
		j = jitterMs
	}
	if p.fx.Trigger(kind, kind.DefaultAmplitude(), j, p.pan) {
		p.last = kind.String()
	} else {
		p.last = kind.String() + " (dropped)"
	}
}

func (p *playModel) setMaster(v float32) {
	// snap to the step grid so repeated presses reach 0 and 1 exactly
	v = float32(int(v/volumeStep+0.5)) * volumeStep
	p.master = min(max(v, 0), 1)
	p.m.SetMasterVolume(p.master)
}

func (p *playModel) refresh() {
	p.stats = p.m.Stats()
	if sr, ok := p.fx.(audio.StatsReporter); ok {
		p.fxStats = sr.Stats()
	}
	p.lines = p.logs.Lines()
}

func (p playModel) View() string {
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteByte('\n')
	}

	b.WriteString(titleStyle.Render("rtsfx"))
	b.WriteString("\n\n")

	row("master", fmt.Sprintf("%.2f", p.master))
	row("pan", panBar(p.pan))
	row("tone", p.tone.State().String())
	jitter := "off"
	if p.jitter {
		jitter = fmt.Sprintf("%d ms", jitterMs)
	}
	row("jitter", jitter)
	if p.last != "" {
		row("last", p.last)
	}
	b.WriteByte('\n')

	row("playing", fmt.Sprintf("%d", p.fxStats.Active))
	row("triggers", fmt.Sprintf("%d queued, %d dropped", p.fxStats.TriggersQueued, p.fxStats.TriggersDropped))
	row("buffers", fmt.Sprintf("%d (%d frames)", p.stats.Buffers, p.stats.Frames))
	if p.stats.ClippedSamples > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("clipped %d samples", p.stats.ClippedSamples)))
		b.WriteByte('\n')
	}
	if p.stats.CommandsDropped > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("dropped %d commands", p.stats.CommandsDropped)))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("c click  b beep  e explosion  ←/→ pan  +/- volume"))
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("t tone play/pause  s tone stop  j jitter  q quit"))
	b.WriteByte('\n')

	if len(p.lines) > 0 {
		b.WriteByte('\n')
		for _, l := range p.lines {
			b.WriteString(logStyle.Render(l))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// panBar draws pan as a marker on a nine cell track.
func panBar(pan float32) string {
	const cells = 9
	pos := int((pan + 1) / 2 * (cells - 1))
	track := []rune(strings.Repeat("─", cells))
	track[pos] = '●'
	return fmt.Sprintf("L %s R  %+.2f", string(track), pan)
}

// logBuffer keeps the last few log lines for the UI. It is written by
// zerolog from any goroutine.
type logBuffer struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func newLogBuffer(n int) *logBuffer {
	return &logBuffer{max: n}
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for line := range strings.Lines(string(p)) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		b.lines = append(b.lines, line)
	}
	if over := len(b.lines) - b.max; over > 0 {
		b.lines = append(b.lines[:0], b.lines[over:]...)
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines, oldest first.
func (b *logBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}
