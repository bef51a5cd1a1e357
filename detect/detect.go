// SPDX-License-Identifier: EPL-2.0

package detect

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/ik5/hapsync/errs"
)

// Params configures Detect. Window lengths are converted to whole frames
// of the envelope.
type Params struct {
	SampleRate int
	HopLength  int

	// Threshold is how far above the local mean a normalized peak must rise.
	Threshold float64
	MinGap    time.Duration

	PreMax  time.Duration
	PostMax time.Duration
	PreAvg  time.Duration
	PostAvg time.Duration

	Backtrack bool
}

// DefaultParams returns a 30 ms local-max window and a ±100 ms mean window.
func DefaultParams(sampleRate, hopLength int) Params {
	return Params{
		SampleRate: sampleRate,
		HopLength:  hopLength,
		Threshold:  0.1,
		PreMax:     30 * time.Millisecond,
		PreAvg:     100 * time.Millisecond,
		PostAvg:    100 * time.Millisecond,
	}
}

func (p Params) Validate() error {
	const op = "detect.Detect"

	switch {
	case p.SampleRate <= 0:
		return errs.Parameter(op, "sample_rate", p.SampleRate, "must be positive")
	case p.HopLength <= 0:
		return errs.Parameter(op, "hop_length", p.HopLength, "must be positive")
	case p.MinGap < 0:
		return errs.Parameter(op, "min_gap", p.MinGap, "must not be negative")
	case p.PreMax < 0 || p.PostMax < 0 || p.PreAvg < 0 || p.PostAvg < 0:
		return errs.Parameter(op, "window", nil, "windows must not be negative")
	}

	return errs.Unit(op, "threshold", p.Threshold)
}

func (p Params) frames(d time.Duration) int {
	return int(d.Seconds() * float64(p.SampleRate) / float64(p.HopLength))
}

// gapFrames is the smallest frame distance that is not closer than MinGap.
// Accepted peaks are always at least one frame apart.
func (p Params) gapFrames() int {
	exact := p.MinGap.Seconds() * float64(p.SampleRate) / float64(p.HopLength)
	// drop float noise so exact multiples of a hop stay exact
	exact = math.Round(exact*1e9) / 1e9

	return max(int(math.Ceil(exact)), 1)
}

// FrameTime is the time in seconds of frame i.
func (p Params) FrameTime(i int) float64 {
	return float64(i*p.HopLength) / float64(p.SampleRate)
}

// Peak is an accepted onset.
type Peak struct {
	Frame int
	// Time of Frame in seconds.
	Time float64
	// Strength is the raw envelope value at the peak divided by the largest
	// accepted one, in (0,1].
	Strength float64
}

// Detect finds the peaks of envelope. An empty or flat envelope yields no
// peaks and no error.
func Detect(envelope []float64, p Params) ([]Peak, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(envelope) == 0 {
		return nil, nil
	}

	norm, ok := normalize(envelope)
	if !ok {
		return nil, nil
	}

	candidates := pick(norm, p)
	if len(candidates) == 0 {
		return nil, nil
	}

	positions := candidates
	if p.Backtrack {
		positions = backtrack(envelope, candidates)
	}

	peaks := suppress(positions, candidates, envelope, p)
	scale(peaks)

	return peaks, nil
}

// normalize rescales x to [0,1]. It reports false for a flat envelope.
func normalize(x []float64) ([]float64, bool) {
	lo, hi := floats.Min(x), floats.Max(x)
	if hi-lo <= 0 {
		return nil, false
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - lo) / (hi - lo)
	}

	return out, true
}

// pick returns the frames that are a local maximum and clear the local
// mean by the threshold, in ascending order.
func pick(x []float64, p Params) []int {
	preMax, postMax := p.frames(p.PreMax), p.frames(p.PostMax)+1
	preAvg, postAvg := p.frames(p.PreAvg), p.frames(p.PostAvg)+1

	// sum[i] is the total of x[:i]
	sum := make([]float64, len(x)+1)
	floats.CumSum(sum[1:], x)

	var out []int
	for n, v := range x {
		lo, hi := max(n-preMax, 0), min(n+postMax, len(x))
		if floats.Max(x[lo:hi]) > v {
			continue
		}

		lo, hi = max(n-preAvg, 0), min(n+postAvg, len(x))
		mean := (sum[hi] - sum[lo]) / float64(hi-lo)
		if v >= mean+p.Threshold {
			out = append(out, n)
		}
	}

	return out
}

// backtrack moves every frame to the closest local minimum of x at or
// before it, or to frame 0 when there is none.
func backtrack(x []float64, frames []int) []int {
	minima := []int{0}
	for i := 1; i+1 < len(x); i++ {
		if x[i] <= x[i-1] && x[i] < x[i+1] {
			minima = append(minima, i)
		}
	}

	out := make([]int, len(frames))
	for j, f := range frames {
		k := sort.SearchInts(minima, f+1) - 1
		out[j] = minima[max(k, 0)]
	}

	return out
}

// suppress accepts positions greedily, left to right. strength is read at
// the candidate frame, before backtracking.
func suppress(positions, candidates []int, envelope []float64, p Params) []Peak {
	gap := p.gapFrames()

	var peaks []Peak
	last := math.MinInt
	for j, pos := range positions {
		if last != math.MinInt && pos-last < gap {
			continue
		}

		peaks = append(peaks, Peak{
			Frame:    pos,
			Time:     p.FrameTime(pos),
			Strength: envelope[candidates[j]],
		})
		last = pos
	}

	return peaks
}

func scale(peaks []Peak) {
	if len(peaks) == 0 {
		return
	}

	strengths := make([]float64, len(peaks))
	for i, pk := range peaks {
		strengths[i] = pk.Strength
	}
	top := floats.Max(strengths)
	if top <= 0 {
		return
	}

	for i := range peaks {
		peaks[i].Strength /= top
	}
}
