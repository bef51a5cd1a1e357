// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/gopxl/beep"
	beepflac "github.com/gopxl/beep/flac"
	"github.com/ik5/hapsync/audio"
)

// streamer is the part of beep.StreamSeekCloser the source uses
type streamer interface {
	Stream(samples [][2]float64) (n int, ok bool)
	Err() error
	Close() error
}

// source adapts a beep streamer. beep always streams stereo frames and
// duplicates mono input into both channels, so mono files only take the
// left channel.
type source struct {
	s          streamer
	sampleRate int
	channels   int
	frames     [][2]float64
	done       bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }

func (s *source) Close() error {
	if err := s.s.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	want := len(dst) / s.channels
	if want == 0 {
		return 0, nil
	}
	if cap(s.frames) < want {
		s.frames = make([][2]float64, want)
	}
	s.frames = s.frames[:want]

	n, ok := s.s.Stream(s.frames)
	for i, f := range s.frames[:n] {
		if s.channels == 1 {
			dst[i] = float32(f[0])
			continue
		}
		dst[2*i] = float32(f[0])
		dst[2*i+1] = float32(f[1])
	}

	if !ok || n < want {
		s.done = true
		if err := s.s.Err(); err != nil {
			return n * s.channels, fmt.Errorf("%w", err)
		}

		return n * s.channels, io.EOF
	}

	return n * s.channels, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	s, format, err := beepflac.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(s, format), nil
}

func newSource(s streamer, format beep.Format) *source {
	return &source{
		s:          s,
		sampleRate: int(format.SampleRate),
		channels:   min(max(format.NumChannels, 1), 2),
	}
}
