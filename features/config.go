// SPDX-License-Identifier: EPL-2.0

package features

import "fmt"

// Config holds the framing parameters of an Extractor.
type Config struct {
	SampleRate int `json:"sample_rate"`

	// FrameLength and HopLength frame RMS and spectral centroid.
	FrameLength int `json:"frame_length"`
	HopLength   int `json:"hop_length"`

	// OnsetFFT and OnsetHop frame the onset-strength envelope.
	OnsetFFT int `json:"onset_fft"`
	OnsetHop int `json:"onset_hop"`

	Mels  int     `json:"mels"`
	TopDB float64 `json:"top_db"`
}

// DefaultConfig returns the framing used by the haptic pipelines at
// sampleRate: 2048/512 for energy and centroid, 1024/512 for onsets.
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate:  sampleRate,
		FrameLength: 2048,
		HopLength:   512,
		OnsetFFT:    1024,
		OnsetHop:    512,
		Mels:        64,
		TopDB:       80,
	}
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, c.SampleRate)
	}
	if c.FrameLength <= 0 || c.HopLength <= 0 || c.OnsetFFT <= 0 || c.OnsetHop <= 0 {
		return ErrInvalidFrame
	}
	if c.Mels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMels, c.Mels)
	}

	return nil
}
