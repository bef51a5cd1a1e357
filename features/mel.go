// SPDX-License-Identifier: EPL-2.0

package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melFSP       = 200.0 / 3
	melMinLogHz  = 1000.0
	melMinLogMel = melMinLogHz / melFSP
)

var melLogStep = math.Log(6.4) / 27

func hzToMel(f float64) float64 {
	if f < melMinLogHz {
		return f / melFSP
	}

	return melMinLogMel + math.Log(f/melMinLogHz)/melLogStep
}

func melToHz(m float64) float64 {
	if m < melMinLogMel {
		return m * melFSP
	}

	return melMinLogHz * math.Exp(melLogStep*(m-melMinLogMel))
}

// MelFilterbank builds an area-normalized triangular filterbank of shape
// (nFFT/2+1) x mels, so a row of power spectra times it yields band
// energies.
func MelFilterbank(sampleRate, nFFT, mels int, fMin, fMax float64) *mat.Dense {
	bins := nFFT/2 + 1
	if fMax <= 0 {
		fMax = float64(sampleRate) / 2
	}

	edges := make([]float64, mels+2)
	floats.Span(edges, hzToMel(fMin), hzToMel(fMax))
	for i, m := range edges {
		edges[i] = melToHz(m)
	}

	freqs := BinFrequencies(sampleRate, nFFT)
	fb := mat.NewDense(bins, mels, nil)
	for m := range mels {
		lo, center, hi := edges[m], edges[m+1], edges[m+2]
		norm := 2 / (hi - lo)
		for k, f := range freqs {
			up := (f - lo) / (center - lo)
			down := (hi - f) / (hi - center)
			if w := math.Max(0, math.Min(up, down)); w > 0 {
				fb.Set(k, m, w*norm)
			}
		}
	}

	return fb
}

// MelEnergies projects power spectra (one row per frame) onto fb.
func MelEnergies(power [][]float64, fb *mat.Dense) *mat.Dense {
	bins, mels := fb.Dims()
	if len(power) == 0 {
		return nil
	}

	spec := mat.NewDense(len(power), bins, nil)
	for i, row := range power {
		spec.SetRow(i, row[:bins])
	}

	out := mat.NewDense(len(power), mels, nil)
	out.Mul(spec, fb)

	return out
}

// PowerToDB converts m to decibels in place, clipping everything more than
// topDB below the peak. A topDB of zero disables clipping.
func PowerToDB(m *mat.Dense, topDB float64) {
	const amin = 1e-10

	m.Apply(func(_, _ int, v float64) float64 {
		return 10 * math.Log10(math.Max(v, amin))
	}, m)

	if topDB <= 0 {
		return
	}

	floor := mat.Max(m) - topDB
	m.Apply(func(_, _ int, v float64) float64 {
		return math.Max(v, floor)
	}, m)
}
