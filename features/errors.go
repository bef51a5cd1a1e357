// SPDX-License-Identifier: EPL-2.0

package features

import "errors"

var (
	ErrInvalidRate  = errors.New("sample rate must be positive")
	ErrInvalidFrame = errors.New("frame and hop lengths must be positive")
	ErrInvalidMels  = errors.New("mel band count must be positive")
)
