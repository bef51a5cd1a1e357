// SPDX-License-Identifier: EPL-2.0

package hapsync

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/hapsync/audio"
	"github.com/ik5/hapsync/classify"
	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/formats"
	"github.com/ik5/hapsync/haptic"
	"github.com/ik5/hapsync/internal/logger"
)

// Pipeline decodes files and runs the analyses on them. It keeps no per-file
// state, so one Pipeline can serve concurrent callers.
type Pipeline struct {
	registry *audio.Registry
	analyzer *haptic.Analyzer
	engine   *classify.Engine
	log      *logger.Logger
}

type Option func(*Pipeline)

// WithRegistry replaces the default decoder registry.
func WithRegistry(r *audio.Registry) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithEngine attaches a sound classifier.
func WithEngine(e *classify.Engine) Option {
	return func(p *Pipeline) { p.engine = e }
}

func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// New builds a pipeline whose haptic analyses use cfg.
func New(cfg haptic.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		registry: formats.NewRegistry(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	a, err := haptic.New(cfg, haptic.WithLogger(p.log.Zap()))
	if err != nil {
		return nil, err
	}
	p.analyzer = a

	return p, nil
}

func (p *Pipeline) Config() haptic.Config     { return p.analyzer.Config() }
func (p *Pipeline) Registry() *audio.Registry { return p.registry }
func (p *Pipeline) Engine() *classify.Engine  { return p.engine }

// Supported reports whether path has a decodable extension.
func (p *Pipeline) Supported(path string) bool {
	return formats.Supported(p.registry, path)
}

// Full produces the per-second haptic timeline of the file at path.
func (p *Pipeline) Full(path string) (*haptic.FullTimeline, error) {
	buf, err := p.load(path, p.analyzer.Config().SampleRate)
	if err != nil {
		return nil, err
	}

	tl, err := p.analyzer.Full(buf, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	p.log.Info("full timeline ready",
		zap.String("file", path),
		zap.Int("seconds", tl.TotalSeconds),
		zap.Int("vibrating", tl.VibrationSeconds),
	)

	return tl, nil
}

// Precise produces the onset event timeline of the file at path. The
// parameters are checked before the file is read.
func (p *Pipeline) Precise(path string, sensitivity float64, minGap time.Duration) (*haptic.PreciseTimeline, error) {
	if _, err := p.analyzer.Config().Threshold.Threshold(sensitivity); err != nil {
		return nil, err
	}
	if minGap < 0 {
		return nil, errs.Parameter("hapsync.Precise", "min_gap", minGap, "must not be negative")
	}

	buf, err := p.load(path, p.analyzer.Config().SampleRate)
	if err != nil {
		return nil, err
	}

	tl, err := p.analyzer.Precise(buf, filepath.Base(path), sensitivity, minGap)
	if err != nil {
		return nil, err
	}
	p.log.Info("precise timeline ready",
		zap.String("file", path),
		zap.Int("events", tl.TotalEvents),
		zap.Float64("sensitivity", sensitivity),
	)

	return tl, nil
}

// Classify labels the sounds in the file at path.
func (p *Pipeline) Classify(ctx context.Context, path string, opts classify.Options) (*classify.Timeline, error) {
	if p.engine == nil {
		return nil, ErrNoClassifier
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	buf, err := p.load(path, classify.SampleRate)
	if err != nil {
		return nil, err
	}

	tl, err := p.engine.Classify(ctx, buf, filepath.Base(path), opts)
	if err != nil {
		return nil, err
	}
	p.log.Info("classification ready",
		zap.String("file", path),
		zap.Int("events", tl.TotalEvents),
	)

	return tl, nil
}

func (p *Pipeline) load(path string, rate int) (*audio.Buffer, error) {
	start := time.Now()

	buf, err := formats.Load(p.registry, path, rate)
	if err != nil {
		return nil, err
	}
	p.log.Debug("decoded audio",
		zap.String("file", path),
		zap.Int("sample_rate", rate),
		zap.Float64("duration_sec", buf.Duration()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return buf, nil
}
