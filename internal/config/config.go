// SPDX-License-Identifier: EPL-2.0

// Package config loads the command line settings from defaults, an
// optional YAML file, RTSFX_* environment variables and flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/ringbuf"
)

// EnvPrefix is prepended to every key to form its environment variable,
// so sample-rate is read from RTSFX_SAMPLE_RATE.
const EnvPrefix = "RTSFX"

// Setting keys, shared with the command line flag names.
const (
	KeyConfig       = "config"
	KeySampleRate   = "sample-rate"
	KeyPeriod       = "period"
	KeyBackend      = "backend"
	KeySource       = "source"
	KeyMasterVolume = "master-volume"
	KeyLogLevel     = "log-level"
	KeyQueueMode    = "queue-mode"
)

const maxSampleRate = 384000

var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the validated configuration of a run.
type Settings struct {
	SampleRate   int     `mapstructure:"sample-rate"`
	Period       int     `mapstructure:"period"` // frames per callback
	Backend      string  `mapstructure:"backend"`
	Source       string  `mapstructure:"source"`
	MasterVolume float32 `mapstructure:"master-volume"`
	LogLevel     string  `mapstructure:"log-level"`
	QueueMode    string  `mapstructure:"queue-mode"`

	level zerolog.Level
	mode  ringbuf.Mode
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySampleRate, engine.DefaultSampleRate)
	v.SetDefault(KeyPeriod, engine.DefaultFramesPerBuffer)
	v.SetDefault(KeyBackend, "malgo")
	v.SetDefault(KeySource, "cached")
	v.SetDefault(KeyMasterVolume, engine.DefaultMasterVolume)
	v.SetDefault(KeyLogLevel, zerolog.InfoLevel.String())
	v.SetDefault(KeyQueueMode, ringbuf.ModeMPSC.String())
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges the YAML file at path into v. An empty path is not an
// error.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every field and reports all problems at once.
func (s *Settings) Validate() error {
	var errs []error
	bad := func(key string, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidSetting, key, fmt.Sprintf(format, args...)))
	}

	if s.SampleRate <= 0 || s.SampleRate > maxSampleRate {
		bad(KeySampleRate, "%d is outside (0, %d]", s.SampleRate, maxSampleRate)
	}
	if s.Period <= 0 || s.Period > engine.DefaultMaxFrames {
		bad(KeyPeriod, "%d is outside (0, %d]", s.Period, engine.DefaultMaxFrames)
	}
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if s.Backend == "" {
		bad(KeyBackend, "empty")
	}
	s.Source = strings.ToLower(strings.TrimSpace(s.Source))
	if s.Source != "cached" && s.Source != "procedural" {
		bad(KeySource, "%q is neither cached nor procedural", s.Source)
	}
	if s.MasterVolume < 0 || s.MasterVolume > 1 || s.MasterVolume != s.MasterVolume {
		bad(KeyMasterVolume, "%v is outside [0, 1]", s.MasterVolume)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil {
		bad(KeyLogLevel, "%v", err)
	}
	s.level = level

	mode, err := ringbuf.ParseMode(s.QueueMode)
	if err != nil {
		bad(KeyQueueMode, "%v", err)
	}
	s.mode = mode

	return errors.Join(errs...)
}

// Level returns the parsed log level.
func (s *Settings) Level() zerolog.Level { return s.level }

// EngineOptions translates the settings into engine options.
func (s *Settings) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithSampleRate(s.SampleRate),
		engine.WithFramesPerBuffer(s.Period),
		engine.WithMasterVolume(s.MasterVolume),
		engine.WithQueueMode(s.mode),
	}
}
