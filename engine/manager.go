// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/ringbuf"
)

// Manager mixes registered sources into a stereo stream.
//
// Control methods (AddSource, SetMasterVolume, ...) may be called from any
// goroutine. They enqueue a Command and return at once; the render
// goroutine applies queued commands at the start of its next callback.
// Render and RenderPlanar must only ever run on one goroutine at a time:
// the device's callback goroutine after Initialize, or the caller's when
// rendering offline.
//
// Sources are identified by interface equality, so they should be pointer
// types.
type Manager struct {
	cfg      config
	log      zerolog.Logger
	dropWarn *rate.Limiter

	commands ringbuf.Queue[Command]
	master   atomic.Uint32 // float32 bits

	// render goroutine only
	sources []audio.Source
	mixL    []float32
	mixR    []float32
	srcL    []float32
	srcR    []float32

	mu      sync.Mutex
	running bool

	commandsQueued    atomic.Uint64
	commandsDropped   atomic.Uint64
	commandsProcessed atomic.Uint64
	buffers           atomic.Uint64
	frames            atomic.Uint64
	clipped           atomic.Uint64
	registryOverflows atomic.Uint64
	sourceCount       atomic.Int64
}

// New returns a Manager configured by opts.
func New(opts ...Option) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	commands, err := ringbuf.New[Command](cfg.queueMode, cfg.commandCapacity)
	if err != nil {
		return nil, fmt.Errorf("command queue: %w", err)
	}

	m := &Manager{
		cfg:      cfg,
		log:      cfg.logger.With().Str("component", "engine").Logger(),
		dropWarn: rate.NewLimiter(rate.Every(time.Second), 1),
		commands: commands,
		sources:  make([]audio.Source, 0, cfg.maxSources),
		mixL:     make([]float32, cfg.maxFrames),
		mixR:     make([]float32, cfg.maxFrames),
		srcL:     make([]float32, cfg.maxFrames),
		srcR:     make([]float32, cfg.maxFrames),
	}
	m.master.Store(math.Float32bits(cfg.masterVolume))
	return m, nil
}

// SampleRate returns the output rate in Hz.
func (m *Manager) SampleRate() int { return m.cfg.sampleRate }

// FramesPerBuffer returns the callback period requested from the device.
func (m *Manager) FramesPerBuffer() int { return m.cfg.framesPerBuffer }

// MasterVolume returns the master gain applied by the render goroutine.
// A SetMasterVolume still in the queue is not reflected yet.
func (m *Manager) MasterVolume() float32 {
	return math.Float32frombits(m.master.Load())
}

// Initialize opens and starts the configured device. Calling it again
// while running does nothing.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dev := m.cfg.device
	if dev == nil {
		m.running = true
		m.log.Info().Int("sample_rate", m.cfg.sampleRate).Msg("engine initialized without device")
		return nil
	}

	dc := DeviceConfig{
		SampleRate:      m.cfg.sampleRate,
		Channels:        Channels,
		FramesPerBuffer: m.cfg.framesPerBuffer,
	}
	if err := dev.Open(dc, m.renderCallback); err != nil {
		return fmt.Errorf("open %s device: %w", deviceName(dev), err)
	}
	if err := dev.Start(); err != nil {
		if cerr := dev.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return fmt.Errorf("start %s device: %w", deviceName(dev), err)
	}

	m.running = true
	m.log.Info().
		Str("device", deviceName(dev)).
		Int("sample_rate", dc.SampleRate).
		Int("frames_per_buffer", dc.FramesPerBuffer).
		Msg("engine initialized")
	return nil
}

// Shutdown stops and closes the device, then empties the registry and
// discards queued commands. Calling it when not running does nothing.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false

	var err error
	if dev := m.cfg.device; dev != nil {
		if serr := dev.Stop(); serr != nil {
			err = errors.Join(err, fmt.Errorf("stop %s device: %w", deviceName(dev), serr))
		}
		if cerr := dev.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s device: %w", deviceName(dev), cerr))
		}
	}

	// no callback can run past Stop, so the render state is ours now
	for {
		if _, ok := m.commands.TryPop(); !ok {
			break
		}
	}
	clear(m.sources)
	m.sources = m.sources[:0]
	m.sourceCount.Store(0)

	m.log.Info().Err(err).Msg("engine shut down")
	return err
}

// Running reports whether Initialize has succeeded and Shutdown has not
// been called since.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Manager) renderCallback(dst []float32) { m.Render(dst) }

func (m *Manager) enqueue(cmd Command) bool {
	if m.commands.TryPush(cmd) {
		m.commandsQueued.Add(1)
		return true
	}

	dropped := m.commandsDropped.Add(1)
	if m.dropWarn.Allow() {
		m.log.Warn().
			Stringer("command", cmd.Kind).
			Uint64("dropped_total", dropped).
			Msg("command queue full, dropping command")
	}
	return false
}

// AddSource registers src. Adding a source twice has no effect. It reports
// whether the command was queued.
func (m *Manager) AddSource(src audio.Source) bool {
	if src == nil {
		return false
	}
	return m.enqueue(Command{Kind: CmdAddSource, Source: src})
}

// RemoveSource unregisters src; removing an unknown source has no effect.
func (m *Manager) RemoveSource(src audio.Source) bool {
	if src == nil {
		return false
	}
	return m.enqueue(Command{Kind: CmdRemoveSource, Source: src})
}

// SetSourceVolume sets a registered source's gain.
func (m *Manager) SetSourceVolume(src audio.Source, v float32) bool {
	if src == nil {
		return false
	}
	return m.enqueue(Command{Kind: CmdSetSourceVolume, Source: src, Value: v})
}

// SetMasterVolume queues a new master gain, applied at the next callback.
func (m *Manager) SetMasterVolume(v float32) bool {
	return m.enqueue(Command{Kind: CmdSetMasterVolume, Value: v})
}

// StartSource calls src.Start on the render goroutine if src is registered.
func (m *Manager) StartSource(src audio.Source) bool {
	return m.lifecycle(CmdStartSource, src)
}

// StopSource calls src.Stop on the render goroutine if src is registered.
func (m *Manager) StopSource(src audio.Source) bool {
	return m.lifecycle(CmdStopSource, src)
}

// PauseSource calls src.Pause on the render goroutine if src is registered.
func (m *Manager) PauseSource(src audio.Source) bool {
	return m.lifecycle(CmdPauseSource, src)
}

// ResumeSource calls src.Resume on the render goroutine if src is registered.
func (m *Manager) ResumeSource(src audio.Source) bool {
	return m.lifecycle(CmdResumeSource, src)
}

func (m *Manager) lifecycle(kind CommandKind, src audio.Source) bool {
	if src == nil {
		return false
	}
	return m.enqueue(Command{Kind: kind, Source: src})
}

// Stats is a snapshot of the engine counters.
type Stats struct {
	CommandsQueued    uint64
	CommandsDropped   uint64
	CommandsProcessed uint64
	Buffers           uint64
	Frames            uint64
	ClippedSamples    uint64
	// RegistryOverflows counts AddSource commands ignored because the
	// registry was full.
	RegistryOverflows uint64
	Sources           int
	MasterVolume      float32
}

// Stats returns the current counters. Each field is read atomically but
// the snapshot as a whole is not.
func (m *Manager) Stats() Stats {
	return Stats{
		CommandsQueued:    m.commandsQueued.Load(),
		CommandsDropped:   m.commandsDropped.Load(),
		CommandsProcessed: m.commandsProcessed.Load(),
		Buffers:           m.buffers.Load(),
		Frames:            m.frames.Load(),
		ClippedSamples:    m.clipped.Load(),
		RegistryOverflows: m.registryOverflows.Load(),
		Sources:           int(m.sourceCount.Load()),
		MasterVolume:      m.MasterVolume(),
	}
}
