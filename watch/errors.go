// SPDX-License-Identifier: EPL-2.0

package watch

import "errors"

var (
	ErrNoHandler = errors.New("watch: no handler")
	ErrNotDir    = errors.New("watch: not a directory")
)
