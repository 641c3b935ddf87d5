// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/rtsfx/devices"
	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/internal/config"
)

// app carries what the subcommands share once flags are parsed.
type app struct {
	v        *viper.Viper
	settings *config.Settings
	log      zerolog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:               "rtsfx",
		Short:             "Realtime sound effects",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	f := root.PersistentFlags()
	f.String(config.KeyConfig, "", "YAML config file")
	f.Int(config.KeySampleRate, engine.DefaultSampleRate, "output sample rate in Hz")
	f.Int(config.KeyPeriod, engine.DefaultFramesPerBuffer, "frames per device callback")
	f.String(config.KeyBackend, "malgo", "audio backend ("+strings.Join(devices.Names(), ", ")+")")
	f.String(config.KeySource, "cached", "effect source (cached, procedural)")
	f.Float32(config.KeyMasterVolume, engine.DefaultMasterVolume, "master volume in [0, 1]")
	f.String(config.KeyLogLevel, zerolog.InfoLevel.String(), "log level")
	f.String(config.KeyQueueMode, "mpsc", "command queue (mpsc, spsc)")

	// flag names double as setting keys
	if err := a.v.BindPFlags(f); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	root.AddCommand(
		newPlayCommand(a),
		newRenderCommand(a),
		newSoundsCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.ReadFile(a.v, a.v.GetString(config.KeyConfig)); err != nil {
		return err
	}
	s, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.settings = s

	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.TimeOnly,
	}).Level(s.Level()).With().Timestamp().Logger()

	a.log.Debug().
		Str("command", cmd.Name()).
		Int("sample_rate", s.SampleRate).
		Int("period", s.Period).
		Str("backend", s.Backend).
		Str("source", s.Source).
		Msg("settings loaded")
	return nil
}
