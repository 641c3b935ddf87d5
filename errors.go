// SPDX-License-Identifier: EPL-2.0

package rtsfx

import "errors"

var (
	ErrInvalidReader  = errors.New("invalid reader")
	ErrInvalidPattern = errors.New("invalid trigger pattern")
	ErrEmptyPattern   = errors.New("empty trigger pattern")
)
