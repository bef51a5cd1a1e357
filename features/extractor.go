// SPDX-License-Identifier: EPL-2.0

package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Extractor computes frame features with a fixed Config.
type Extractor struct {
	cfg     Config
	onsetFB *mat.Dense
	freqs   []float64
}

func New(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Extractor{
		cfg:     cfg,
		onsetFB: MelFilterbank(cfg.SampleRate, cfg.OnsetFFT, cfg.Mels, 0, 0),
		freqs:   BinFrequencies(cfg.SampleRate, cfg.FrameLength),
	}, nil
}

func (e *Extractor) Config() Config   { return e.cfg }
func (e *Extractor) SampleRate() int  { return e.cfg.SampleRate }
func (e *Extractor) FrameLength() int { return e.cfg.FrameLength }
func (e *Extractor) HopLength() int   { return e.cfg.HopLength }
func (e *Extractor) OnsetHop() int    { return e.cfg.OnsetHop }

// RMS returns the root-mean-square energy of every centered frame.
func (e *Extractor) RMS(x []float64) []float64 {
	return RMS(x, e.cfg.FrameLength, e.cfg.HopLength)
}

// RMS computes centered frame energies without windowing.
func RMS(x []float64, frameLength, hop int) []float64 {
	n := FrameCount(len(x), hop)
	if n == 0 {
		return nil
	}

	// prefix sums of squares
	sq := make([]float64, len(x)+1)
	for i, v := range x {
		sq[i+1] = sq[i] + v*v
	}

	out := make([]float64, n)
	for i := range out {
		lo := min(max(i*hop-frameLength/2, 0), len(x))
		hi := min(max(i*hop-frameLength/2+frameLength, 0), len(x))
		out[i] = math.Sqrt(math.Max(sq[hi]-sq[lo], 0) / float64(frameLength))
	}

	return out
}

// Centroid returns the spectral centroid in Hz of every frame. Silent
// frames have a centroid of zero.
func (e *Extractor) Centroid(x []float64) []float64 {
	spec := Spectrogram(x, e.cfg.FrameLength, e.cfg.HopLength)

	out := make([]float64, len(spec))
	for i, mags := range spec {
		total := floats.Sum(mags)
		if total <= 0 {
			continue
		}
		out[i] = floats.Dot(mags, e.freqs) / total
	}

	return out
}

// OnsetEnvelope returns the onset strength of every onset frame: the mean
// positive increase of log-mel energy over the previous frame. The envelope
// is delayed by half an FFT window so a peak lines up with the frame where
// the onset is centered. The first frame is always zero.
func (e *Extractor) OnsetEnvelope(x []float64) []float64 {
	power := PowerSpectrogram(x, e.cfg.OnsetFFT, e.cfg.OnsetHop)
	if len(power) == 0 {
		return nil
	}

	mel := MelEnergies(power, e.onsetFB)
	PowerToDB(mel, e.cfg.TopDB)

	frames, bands := mel.Dims()
	lag := 1 + e.cfg.OnsetFFT/(2*e.cfg.OnsetHop)
	env := make([]float64, frames)
	for i := 1; i+lag-1 < frames; i++ {
		cur, prev := mel.RawRowView(i), mel.RawRowView(i-1)

		var sum float64
		for b := range bands {
			sum += math.Max(0, cur[b]-prev[b])
		}
		env[i+lag-1] = sum / float64(bands)
	}

	return env
}

// LogMel returns log-mel band energies of x framed with nFFT and hop, one
// row per frame.
func LogMel(x []float64, sampleRate, nFFT, hop, mels int) *mat.Dense {
	power := PowerSpectrogram(x, nFFT, hop)
	if len(power) == 0 {
		return nil
	}

	m := MelEnergies(power, MelFilterbank(sampleRate, nFFT, mels, 0, 0))
	m.Apply(func(_, _ int, v float64) float64 {
		return math.Log(v + 1e-6)
	}, m)

	return m
}
