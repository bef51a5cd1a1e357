// SPDX-License-Identifier: EPL-2.0

package haptic

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ik5/hapsync/audio"
	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/features"
)

// FeatureProvider supplies the frame features both modes consume.
// *features.Extractor implements it.
type FeatureProvider interface {
	SampleRate() int
	FrameLength() int
	HopLength() int
	OnsetHop() int
	RMS(x []float64) []float64
	Centroid(x []float64) []float64
	OnsetEnvelope(x []float64) []float64
}

// Analyzer runs the full and precise pipelines with one Config. It holds no
// per-run state and is safe for concurrent use.
type Analyzer struct {
	cfg  Config
	feat FeatureProvider
	log  *zap.Logger
}

type Option func(*Analyzer)

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithFeatures replaces the default feature extractor.
func WithFeatures(p FeatureProvider) Option {
	return func(a *Analyzer) { a.feat = p }
}

func New(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}

	if a.feat == nil {
		fc := features.DefaultConfig(cfg.SampleRate)
		fc.OnsetHop = cfg.OnsetHop

		ext, err := features.New(fc)
		if err != nil {
			return nil, errs.Parameter("haptic.New", "features", fc, err.Error())
		}
		a.feat = ext
	}

	return a, nil
}

func (a *Analyzer) Config() Config { return a.cfg }

// prepare checks the buffer rate and reports whether the audio is
// degenerate, logging it when so.
func (a *Analyzer) prepare(op, name string, buf *audio.Buffer) ([]float64, error) {
	if buf == nil {
		return nil, errs.Input(op, "no audio buffer", nil)
	}
	if buf.SampleRate() != a.feat.SampleRate() {
		return nil, errs.Parameter(op, "sample_rate", buf.SampleRate(),
			"buffer rate differs from the analyzer rate")
	}

	x := buf.Float64(0, buf.Len())

	reason := ""
	switch {
	case len(x) == 0:
		reason = "zero-length audio"
	case silent(x):
		reason = "silent audio"
	}
	if reason != "" {
		a.log.Warn("degenerate input",
			zap.String("file", name),
			zap.Error(errs.Degenerate(op, reason)))
	}

	return x, nil
}

func silent(x []float64) bool {
	return floats.Norm(x, math.Inf(1)) == 0
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return stat.Mean(x, nil)
}
