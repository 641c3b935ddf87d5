// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/rtsfx"
	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/devices"
	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/formats/wav"
	"github.com/ik5/rtsfx/metrics"
	"github.com/ik5/rtsfx/sources/tone"
	"github.com/ik5/rtsfx/tap"
)

const toneAmplitude = 0.1

type playOptions struct {
	record      string
	metricsAddr string
}

func newPlayCommand(a *app) *cobra.Command {
	var o playOptions
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Trigger sound effects from the keyboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.play(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&o.record, "record", "", "also write the output to this WAV file")
	cmd.Flags().StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func (a *app) play(ctx context.Context, o playOptions) error {
	// the alternate screen owns the terminal, so logs go to the UI
	logs := newLogBuffer(6)
	log := a.log.Output(zerolog.ConsoleWriter{Out: logs, NoColor: true, TimeFormat: time.TimeOnly})

	dev, err := devices.Open(a.settings.Backend)
	if err != nil {
		return err
	}

	var rec *recorder
	if o.record != "" {
		if rec, err = newRecorder(o.record, a.settings.SampleRate); err != nil {
			return err
		}
		defer rec.close(a.log)
		dev = rec.tap.Wrap(dev)
	}

	m, err := engine.New(append(a.settings.EngineOptions(), engine.WithDevice(dev), engine.WithLogger(log))...)
	if err != nil {
		return err
	}

	src, err := rtsfx.NewDefaultRegistry().New(a.settings.Source, m.SampleRate())
	if err != nil {
		return err
	}
	fx, ok := src.(rtsfx.Triggerer)
	if !ok {
		return fmt.Errorf("source %q cannot trigger sounds", a.settings.Source)
	}
	tn, err := tone.New(m.SampleRate(), tone.WithAmplitude(toneAmplitude))
	if err != nil {
		return err
	}
	m.AddSource(fx)
	m.AddSource(tn)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if err := m.Initialize(gctx); err != nil {
		return err
	}
	defer func() {
		if err := m.Shutdown(); err != nil {
			a.log.Error().Err(err).Msg("engine shutdown")
		}
	}()

	if rec != nil {
		g.Go(func() error { return rec.run(gctx) })
	}

	if o.metricsAddr != "" {
		c := metrics.New(m)
		if sr, ok := fx.(audio.StatsReporter); ok {
			c.AddSource(a.settings.Source, sr)
		}
		if rec != nil {
			c.SetTap(rec.tap)
		}
		reg := prometheus.NewRegistry()
		reg.MustRegister(c, collectors.NewGoCollector())
		serveMetrics(gctx, g, o.metricsAddr, reg, log)
	}

	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(newPlayModel(m, fx, tn, logs), tea.WithAltScreen(), tea.WithContext(gctx))
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return g.Wait()
}

func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
}

// recorder drains a tap into a WAV file while the engine plays.
type recorder struct {
	tap *tap.Tap
	f   *os.File
	w   *wav.StreamWriter
}

func newRecorder(path string, sampleRate int) (*recorder, error) {
	tp, err := tap.New(tap.DefaultCapacity)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	w, err := wav.NewStreamWriter(f, sampleRate, engine.Channels)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &recorder{tap: tp, f: f, w: w}, nil
}

func (r *recorder) run(ctx context.Context) error {
	return r.tap.Run(ctx, r.w.Write)
}

func (r *recorder) close(log zerolog.Logger) {
	err := errors.Join(r.w.Close(), r.f.Close())
	log = log.With().
		Str("file", r.f.Name()).
		Uint64("frames", r.w.Frames()).
		Uint64("dropped", r.tap.Dropped()).
		Logger()
	if err != nil {
		log.Error().Err(err).Msg("recording not finished")
		return
	}
	log.Info().Msg("recording saved")
}
