// SPDX-License-Identifier: EPL-2.0

// Package metrics exposes engine, source and tap counters to Prometheus.
//
// The Collector reads snapshots at scrape time, so nothing is recorded on
// the render goroutine:
//
//	c := metrics.New(manager)
//	c.AddSource("sfx", src)
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(c)
package metrics

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/engine"
)

const namespace = "rtsfx"

// EngineStats is implemented by *engine.Manager.
type EngineStats interface {
	Stats() engine.Stats
}

// TapStats is implemented by *tap.Tap.
type TapStats interface {
	Captured() uint64
	Dropped() uint64
}

// Collector is a prometheus.Collector over one engine.
type Collector struct {
	engine EngineStats

	mu      sync.Mutex
	sources map[string]audio.StatsReporter
	tap     TapStats

	commands      *prometheus.Desc
	buffers       *prometheus.Desc
	frames        *prometheus.Desc
	clipped       *prometheus.Desc
	overflows     *prometheus.Desc
	activeSources *prometheus.Desc
	masterVolume  *prometheus.Desc

	triggers         *prometheus.Desc
	instances        *prometheus.Desc
	activeInstances  *prometheus.Desc
	timelineOverflow *prometheus.Desc

	tapFrames *prometheus.Desc
}

// New returns a Collector reading from e.
func New(e EngineStats) *Collector {
	return &Collector{
		engine:  e,
		sources: make(map[string]audio.StatsReporter),

		commands: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "engine", "commands_total"),
			"Engine commands by outcome",
			[]string{"status"}, nil, // queued, dropped, processed
		),
		buffers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "engine", "buffers_rendered_total"),
			"Render callbacks served",
			nil, nil,
		),
		frames: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "engine", "frames_rendered_total"),
			"Stereo frames rendered",
			nil, nil,
		),
		clipped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "engine", "clipped_samples_total"),
			"Output samples clamped to [-1, 1]",
			nil, nil,
		),
		overflows: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "engine", "registry_overflows_total"),
			"Sources not added because the registry was full",
			nil, nil,
		),
		activeSources: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "engine", "sources"),
			"Sources in the registry",
			nil, nil,
		),
		masterVolume: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "engine", "master_volume"),
			"Master gain",
			nil, nil,
		),

		triggers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "source", "triggers_total"),
			"Sound triggers by outcome",
			[]string{"source", "status"}, // queued, dropped
			nil,
		),
		instances: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "source", "instances_total"),
			"Sound instances by outcome",
			[]string{"source", "status"}, // started, finished
			nil,
		),
		activeInstances: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "source", "active_instances"),
			"Sound instances playing after the last render",
			[]string{"source"}, nil,
		),
		timelineOverflow: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "source", "timeline_overflows_total"),
			"Triggers discarded because the timeline was full",
			[]string{"source"}, nil,
		),

		tapFrames: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tap", "frames_total"),
			"Recorded frames by outcome",
			[]string{"status"}, nil, // captured, dropped
		),
	}
}

// AddSource exports s under name, replacing any source already there.
func (c *Collector) AddSource(name string, s audio.StatsReporter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[name] = s
}

// RemoveSource stops exporting name.
func (c *Collector) RemoveSource(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, name)
}

// SetTap exports t's counters; nil stops exporting them.
func (c *Collector) SetTap(t TapStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tap = t
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.commands
	ch <- c.buffers
	ch <- c.frames
	ch <- c.clipped
	ch <- c.overflows
	ch <- c.activeSources
	ch <- c.masterVolume
	ch <- c.triggers
	ch <- c.instances
	ch <- c.activeInstances
	ch <- c.timelineOverflow
	ch <- c.tapFrames
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.engine.Stats()
	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}

	counter(c.commands, st.CommandsQueued, "queued")
	counter(c.commands, st.CommandsDropped, "dropped")
	counter(c.commands, st.CommandsProcessed, "processed")
	counter(c.buffers, st.Buffers)
	counter(c.frames, st.Frames)
	counter(c.clipped, st.ClippedSamples)
	counter(c.overflows, st.RegistryOverflows)
	gauge(c.activeSources, float64(st.Sources))
	gauge(c.masterVolume, float64(st.MasterVolume))

	c.mu.Lock()
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	reporters := make([]audio.StatsReporter, len(names))
	for i, name := range names {
		reporters[i] = c.sources[name]
	}
	tp := c.tap
	c.mu.Unlock()

	for i, name := range names {
		ps := reporters[i].Stats()
		counter(c.triggers, ps.TriggersQueued, name, "queued")
		counter(c.triggers, ps.TriggersDropped, name, "dropped")
		counter(c.instances, ps.InstancesStarted, name, "started")
		counter(c.instances, ps.InstancesFinished, name, "finished")
		counter(c.timelineOverflow, ps.InstancesOverflowed, name)
		gauge(c.activeInstances, float64(ps.Active), name)
	}

	if tp != nil {
		counter(c.tapFrames, tp.Captured(), "captured")
		counter(c.tapFrames, tp.Dropped(), "dropped")
	}
}

var _ prometheus.Collector = (*Collector)(nil)
