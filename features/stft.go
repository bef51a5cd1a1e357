// SPDX-License-Identifier: EPL-2.0

package features

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// FrameCount is the number of centered frames for n samples.
func FrameCount(n, hop int) int {
	if n <= 0 || hop <= 0 {
		return 0
	}

	return 1 + n/hop
}

// frame copies the centered frame i of x into dst, zero-padding outside x.
func frame(dst, x []float64, i, hop int) {
	start := i*hop - len(dst)/2
	for j := range dst {
		k := start + j
		if k < 0 || k >= len(x) {
			dst[j] = 0
			continue
		}
		dst[j] = x[k]
	}
}

// Spectrogram returns one magnitude spectrum (nFFT/2+1 bins) per frame.
func Spectrogram(x []float64, nFFT, hop int) [][]float64 {
	n := FrameCount(len(x), hop)
	if n == 0 || nFFT <= 0 {
		return nil
	}

	win := window.Hann(nFFT)
	buf := make([]float64, nFFT)
	bins := nFFT/2 + 1

	out := make([][]float64, n)
	for i := range out {
		frame(buf, x, i, hop)
		for j := range buf {
			buf[j] *= win[j]
		}

		spec := fft.FFTReal(buf)
		mags := make([]float64, bins)
		for k := range mags {
			mags[k] = cmplx.Abs(spec[k])
		}
		out[i] = mags
	}

	return out
}

// PowerSpectrogram squares the magnitudes of Spectrogram.
func PowerSpectrogram(x []float64, nFFT, hop int) [][]float64 {
	spec := Spectrogram(x, nFFT, hop)
	for _, row := range spec {
		for k, v := range row {
			row[k] = v * v
		}
	}

	return spec
}

// BinFrequencies returns the center frequency of every FFT bin.
func BinFrequencies(sampleRate, nFFT int) []float64 {
	freqs := make([]float64, nFFT/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(nFFT)
	}

	return freqs
}
