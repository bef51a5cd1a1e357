// SPDX-License-Identifier: EPL-2.0

package batch

import "errors"

var (
	ErrNoProcessor = errors.New("batch: no processor")
	ErrPanicked    = errors.New("batch: processor panicked")
)
