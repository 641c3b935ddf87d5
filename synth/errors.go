// SPDX-License-Identifier: EPL-2.0

package synth

import "errors"

var (
	ErrUnknownKind = errors.New("unknown sound kind")
)
