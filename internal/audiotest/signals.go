// SPDX-License-Identifier: EPL-2.0

package audiotest

import "math"

// Silence returns seconds of zero samples at rate.
func Silence(rate int, seconds float64) []float32 {
	return make([]float32, int(seconds*float64(rate)))
}

// AddClick writes a short, bright transient starting at the given time:
// 64 samples alternating in sign with an exponential decay.
func AddClick(samples []float32, rate int, at float64, amplitude float32) {
	start := int(at * float64(rate))
	for i := range 64 {
		if start+i >= len(samples) {
			return
		}
		v := amplitude * float32(math.Exp(-float64(i)/16))
		if i%2 == 1 {
			v = -v
		}
		samples[start+i] = v
	}
}

// AddTone mixes a sine burst of the given frequency into samples.
func AddTone(samples []float32, rate int, from, to, freq float64, amplitude float32) {
	start := max(int(from*float64(rate)), 0)
	end := min(int(to*float64(rate)), len(samples))
	for i := start; i < end; i++ {
		t := float64(i) / float64(rate)
		samples[i] += amplitude * float32(math.Sin(2*math.Pi*freq*t))
	}
}
