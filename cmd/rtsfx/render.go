// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/rtsfx"
	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/formats/flac"
	"github.com/ik5/rtsfx/formats/wav"
)

var errUnknownFormat = errors.New("unknown output format")

func newRenderCommand(a *app) *cobra.Command {
	var (
		out  string
		mono bool
	)
	cmd := &cobra.Command{
		Use:   "render PATTERN",
		Short: "Render a trigger pattern to a WAV or FLAC file",
		Long: `Render plays PATTERN through an engine without a device and writes the
result to a file. PATTERN is a comma separated list of
kind@offset[:amplitude[:pan]] items, for example

    rtsfx render -o hit.flac "click@0,beep@250ms:0.5:-1,explosion@400ms"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.render(args[0], out, mono)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "out.wav", "output file, .wav or .flac")
	cmd.Flags().BoolVar(&mono, "mono", false, "downmix to mono")
	return cmd
}

func (a *app) render(pattern, out string, mono bool) (err error) {
	ext := strings.ToLower(filepath.Ext(out))
	if ext != ".wav" && ext != ".flac" {
		return fmt.Errorf("%w: %q", errUnknownFormat, ext)
	}

	hits, err := rtsfx.ParsePattern(pattern)
	if err != nil {
		return err
	}

	opts := append(a.settings.EngineOptions(), engine.WithLogger(a.log))
	pr, err := rtsfx.NewPatternReader(hits, a.settings.Source == rtsfx.SourceProcedural, opts...)
	if err != nil {
		return err
	}
	defer pr.Close()

	var r audio.Reader = pr
	if mono {
		r = audio.NewMonoMixer(pr)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		// the FLAC encoder closes the file itself
		if cerr := f.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
			err = cerr
		}
	}()

	start := time.Now()
	var frames uint64
	switch ext {
	case ".wav":
		frames, err = wav.Encode(f, r, 0)
	case ".flac":
		frames, err = flac.Encode(f, r, 0)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", out, err)
	}

	a.log.Info().
		Str("file", out).
		Int("hits", len(hits)).
		Uint64("frames", frames).
		Dur("length", time.Duration(frames)*time.Second/time.Duration(pr.SampleRate())).
		Dur("took", time.Since(start)).
		Msg("rendered")
	return nil
}
