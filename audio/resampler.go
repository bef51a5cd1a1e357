// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/hapsync/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples and preserves channel count.
// When downsampling a one-pole low-pass runs on the input first.
type Resampler struct {
	src         Source
	dstRate     int
	ratio       float64 // source frames per output frame
	channels    int
	passthrough bool

	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames [4][]float32
	filled [4]bool
	primed bool
	done   bool
	pos    float64

	chunk      []float32
	head, tail int
	srcEOF     bool

	lowpass bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		passthrough: src.SampleRate() == dstRate,
		chunk:       make([]float32, channels*1024),
		lowpass:     ratio > 1.0,
		alpha:       0.5,
		state:       make([]float32, channels),
	}
	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is exhausted; a trailing partial frame is dropped.
func (r *Resampler) nextFrame(dst []float32, first bool) (bool, error) {
	for r.tail-r.head < r.channels {
		if r.srcEOF {
			return false, nil
		}

		copy(r.chunk, r.chunk[r.head:r.tail])
		r.tail -= r.head
		r.head = 0

		n, err := r.src.ReadSamples(r.chunk[r.tail:])
		r.tail += n
		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(dst, r.chunk[r.head:r.head+r.channels])
	r.head += r.channels

	if r.lowpass {
		if first {
			// seed the filter to avoid a warm-up transient
			copy(r.state, dst)
		}
		for c := range r.channels {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.state[c]
			r.state[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	ok, err := r.nextFrame(r.frames[1], true)
	if err != nil {
		return err
	}
	if !ok {
		r.done = true
		return nil
	}
	copy(r.frames[0], r.frames[1])
	r.filled[1] = true

	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.frames[i], false)
		if err != nil {
			return err
		}
		if !ok {
			copy(r.frames[i], r.frames[i-1])
		}
		r.filled[i] = ok
	}
	r.primed = true

	return nil
}

// advance shifts the window one source frame forward.
func (r *Resampler) advance() error {
	oldest := r.frames[0]
	r.frames[0], r.frames[1], r.frames[2] = r.frames[1], r.frames[2], r.frames[3]
	r.frames[3] = oldest
	r.filled[0], r.filled[1], r.filled[2] = r.filled[1], r.filled[2], r.filled[3]

	ok, err := r.nextFrame(r.frames[3], false)
	if err != nil {
		return err
	}
	if !ok {
		copy(r.frames[3], r.frames[2])
	}
	r.filled[3] = ok

	return nil
}

// ReadSamples produces samples at the target rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.passthrough {
		return r.src.ReadSamples(dst)
	}

	if !r.primed && !r.done {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	need := len(dst) / r.channels

	for !r.done && written < need {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.filled[2] {
			r.done = true
			break
		}

		alpha := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range r.channels {
			out[c] = utils.CubicInterpolate(
				r.frames[0][c], r.frames[1][c], r.frames[2][c], r.frames[3][c], alpha)
		}

		written++
		r.pos += r.ratio
	}

	if r.done {
		return written * r.channels, io.EOF
	}

	return written * r.channels, nil
}
