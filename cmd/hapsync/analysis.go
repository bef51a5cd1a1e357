// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/ik5/hapsync"
	"github.com/ik5/hapsync/classify"
	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/haptic"
	"github.com/ik5/hapsync/preview"
)

const (
	modeFull     = "full"
	modePrecise  = "precise"
	modeClassify = "classify"
)

// analysis holds the flags shared by the commands that run a pipeline.
type analysis struct {
	mode        string
	sensitivity float64
	minGap      time.Duration
	profile     string
	config      string

	threshold float64
	sounds    string
	model     string
	classes   string
	workers   int
	pad       bool
}

func (a *analysis) hapticFlags(fs *flag.FlagSet) {
	fs.Float64Var(&a.sensitivity, "sensitivity", 0.8, "precise mode detection sensitivity, 0.0-1.0")
	fs.DurationVar(&a.minGap, "min-gap", 30*time.Millisecond, "precise mode minimum time between events")
	fs.StringVar(&a.profile, "profile", "", "tuning profile: "+strings.Join(haptic.Profiles(), "|")+" (default follows -mode)")
	fs.StringVar(&a.config, "config", "", "JSON tuning file, overrides -profile")
}

func (a *analysis) classifyFlags(fs *flag.FlagSet) {
	fs.Float64Var(&a.threshold, "threshold", 0.15, "minimum confidence, 0.0-1.0")
	fs.StringVar(&a.sounds, "sounds", "", "comma separated sounds to keep, e.g. slice,chop")
	fs.StringVar(&a.model, "model", "model.json", "classifier model file")
	fs.StringVar(&a.classes, "classes", "class_map.csv", "class map CSV (index,mid,display_name)")
	fs.IntVar(&a.workers, "workers", runtime.NumCPU(), "windows scored concurrently")
	fs.BoolVar(&a.pad, "pad", false, "zero-pad and score the trailing partial window")
}

func (a *analysis) hapticConfig() (haptic.Config, error) {
	switch {
	case a.config != "":
		return haptic.LoadConfig(a.config)
	case a.profile != "":
		return haptic.ProfileByName(a.profile)
	case a.mode == modePrecise:
		return haptic.PreciseProfile(), nil
	default:
		return haptic.FullProfile(), nil
	}
}

func (a *analysis) checkMode(allowed ...string) error {
	for _, m := range allowed {
		if a.mode == m {
			return nil
		}
	}

	return errs.Parameter("hapsync", "mode", a.mode, "want one of "+strings.Join(allowed, "|"))
}

func (a *analysis) classifyOptions() classify.Options {
	var sounds []string
	for s := range strings.SplitSeq(a.sounds, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sounds = append(sounds, s)
		}
	}

	return classify.Options{
		Threshold:   a.threshold,
		Sounds:      sounds,
		Workers:     a.workers,
		PadTrailing: a.pad,
	}
}

// pipeline builds the pipeline for a.mode and rejects bad parameters before
// any file is read. The classifier is only loaded in classify mode.
func (a *analysis) pipeline(e *env) (*hapsync.Pipeline, error) {
	cfg, err := a.hapticConfig()
	if err != nil {
		return nil, err
	}
	if a.mode == modePrecise {
		if _, err := cfg.Threshold.Threshold(a.sensitivity); err != nil {
			return nil, err
		}
		if a.minGap < 0 {
			return nil, errs.Parameter("hapsync", "min_gap", a.minGap, "must not be negative")
		}
	}

	opts := []hapsync.Option{hapsync.WithLogger(e.log)}
	if a.mode == modeClassify {
		if err := a.classifyOptions().Validate(); err != nil {
			return nil, err
		}
		engine, err := classify.Load(a.model, a.classes, e.log.Zap())
		if err != nil {
			return nil, err
		}
		opts = append(opts, hapsync.WithEngine(engine))
	}

	return hapsync.New(cfg, opts...)
}

// result is one analyzed file, tagged with its preview message kind.
type result struct {
	kind  string
	value any
	count int
	unit  string
}

func (a *analysis) analyze(ctx context.Context, p *hapsync.Pipeline, path string) (result, error) {
	switch a.mode {
	case modeFull:
		tl, err := p.Full(path)
		if err != nil {
			return result{}, err
		}
		return result{kind: preview.KindFull, value: tl, count: tl.VibrationSeconds, unit: "vibrating seconds"}, nil

	case modePrecise:
		tl, err := p.Precise(path, a.sensitivity, a.minGap)
		if err != nil {
			return result{}, err
		}
		return result{kind: preview.KindPrecise, value: tl, count: tl.TotalEvents, unit: "events"}, nil

	case modeClassify:
		tl, err := p.Classify(ctx, path, a.classifyOptions())
		if err != nil {
			return result{}, err
		}
		return result{kind: preview.KindClassify, value: tl, count: tl.TotalEvents, unit: "labels"}, nil
	}

	return result{}, fmt.Errorf("unknown mode %q", a.mode)
}
