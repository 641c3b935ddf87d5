// SPDX-License-Identifier: EPL-2.0

package ringbuf

import "errors"

var (
	ErrCapacityNotPowerOfTwo = errors.New("ring buffer capacity must be a power of two greater than 1")
	ErrUnknownMode           = errors.New("unknown queue mode")
)
