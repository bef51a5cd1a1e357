// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 converts a sample in [-1,1] to 16-bit PCM, clamping
// out-of-range input.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return math.MaxInt16
	case x <= -1:
		return math.MinInt16
	}

	return int16(x * math.MaxInt16)
}

// Clamp limits v to [lo, hi].
func Clamp[T ~int | ~float32 | ~float64](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// Round rounds v to the given number of decimal places, half away from
// zero.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)

	return math.Round(v*p) / p
}
