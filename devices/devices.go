// SPDX-License-Identifier: EPL-2.0

// Package devices selects an output backend by name.
package devices

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/rtsfx/devices/malgo"
	"github.com/ik5/rtsfx/devices/null"
	"github.com/ik5/rtsfx/devices/oto"
	"github.com/ik5/rtsfx/devices/pulse"
	"github.com/ik5/rtsfx/engine"
)

var ErrUnknownBackend = errors.New("unknown audio backend")

var backends = map[string]func() engine.Device{
	"malgo": func() engine.Device { return malgo.New() },
	"oto":   func() engine.Device { return oto.New() },
	"pulse": func() engine.Device { return pulse.New() },
	"null":  func() engine.Device { return null.New() },
}

// Names lists the backends Open accepts.
func Names() []string {
	return []string{"malgo", "oto", "pulse", "null"}
}

// Open returns a new, unopened device for the named backend.
func Open(name string) (engine.Device, error) {
	f, ok := backends[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	return f(), nil
}
