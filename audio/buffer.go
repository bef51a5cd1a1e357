// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Buffer is a fully decoded mono signal. It is immutable once built: the
// accessors hand out copies.
type Buffer struct {
	samples []float32
	rate    int
}

// NewBuffer copies samples into a new Buffer.
func NewBuffer(samples []float32, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidRate
	}

	return &Buffer{
		samples: append([]float32(nil), samples...),
		rate:    sampleRate,
	}, nil
}

func (b *Buffer) SampleRate() int { return b.rate }

// Len is the number of samples.
func (b *Buffer) Len() int { return len(b.samples) }

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	return float64(len(b.samples)) / float64(b.rate)
}

// Samples returns a copy of the samples.
func (b *Buffer) Samples() []float32 {
	return append([]float32(nil), b.samples...)
}

// Float64 returns samples [start, end) widened to float64. Bounds are
// clamped to the buffer.
func (b *Buffer) Float64(start, end int) []float64 {
	start = min(max(start, 0), len(b.samples))
	end = min(max(end, start), len(b.samples))

	out := make([]float64, end-start)
	for i, v := range b.samples[start:end] {
		out[i] = float64(v)
	}

	return out
}

// Window copies samples [start, start+len(dst)) into dst and zero-fills
// whatever falls past the end. It returns the number of real samples.
func (b *Buffer) Window(dst []float32, start int) int {
	if start >= len(b.samples) || start < 0 {
		clear(dst)
		return 0
	}

	n := copy(dst, b.samples[start:])
	clear(dst[n:])

	return n
}

// Collect drains src into a mono Buffer at targetRate, resampling and
// down-mixing on the way. bufferSize is the read chunk in samples.
//
// Collect does not close src.
func Collect(src Source, targetRate int, bufferSize int) (*Buffer, error) {
	if targetRate <= 0 {
		return nil, ErrInvalidRate
	}
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	mono := NewMonoMixer(NewResampler(src, targetRate))
	samples := make([]float32, 0, targetRate)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		samples = append(samples, buf[:n]...)

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("collecting samples: %w", err)
		}
	}

	return &Buffer{samples: samples, rate: targetRate}, nil
}
