// SPDX-License-Identifier: EPL-2.0

package haptic

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/ik5/hapsync/detect"
	"github.com/ik5/hapsync/errs"
)

// Config holds every product constant of both modes.
type Config struct {
	Profile    string `json:"profile"`
	SampleRate int    `json:"sample_rate"`
	OnsetHop   int    `json:"onset_hop"`

	Threshold detect.ThresholdPolicy `json:"threshold"`
	Backtrack bool                   `json:"backtrack"`

	Precise PreciseScoring `json:"precise"`
	Full    FullScoring    `json:"full"`
}

// PreciseScoring scores the segment that follows each onset.
type PreciseScoring struct {
	SegmentMS      int     `json:"segment_ms"`
	LoudnessGain   float64 `json:"loudness_gain"`
	BrightnessRef  float64 `json:"brightness_ref_hz"`
	StrengthWeight float64 `json:"strength_weight"`
	LoudnessWeight float64 `json:"loudness_weight"`
	IntensityFloor float64 `json:"intensity_floor"`
	SharpAbove     float64 `json:"sharp_above"`
	MediumAbove    float64 `json:"medium_above"`
	DurationBaseMS float64 `json:"duration_base_ms"`
	DurationGainMS float64 `json:"duration_gain_ms"`
}

// FullScoring turns the loudest frame of a second into a slot. Levels are
// intensity percentages.
type FullScoring struct {
	RMSGain         float64 `json:"rms_gain"`
	StrongAt        int     `json:"strong_at"`
	MediumAt        int     `json:"medium_at"`
	LightAt         int     `json:"light_at"`
	VibrateAt       int     `json:"vibrate_at"`
	SilenceBelow    int     `json:"silence_below"`
	SliceImpacts    int     `json:"slice_impacts"`
	SliceAbove      int     `json:"slice_above"`
	ImpactAt        int     `json:"impact_at"`
	ImpactThreshold float64 `json:"impact_threshold"`
	ImpactGapMS     int     `json:"impact_gap_ms"`

	// ImpactsPerSecond runs the detector on each second's own envelope
	// instead of bucketing peaks found over the whole file. Counts can
	// differ near second boundaries, where the local normalization and
	// mean window of the two approaches see different neighbours.
	ImpactsPerSecond bool `json:"impacts_per_second"`
}

const (
	ProfileFull     = "full"
	ProfilePrecise  = "precise"
	ProfileBalanced = "balanced"
)

func defaultFullScoring() FullScoring {
	return FullScoring{
		RMSGain:         500,
		StrongAt:        50,
		MediumAt:        20,
		LightAt:         5,
		VibrateAt:       20,
		SilenceBelow:    5,
		SliceImpacts:    2,
		SliceAbove:      15,
		ImpactAt:        50,
		ImpactThreshold: 0.1,
		ImpactGapMS:     30,
	}
}

func defaultPreciseScoring() PreciseScoring {
	return PreciseScoring{
		SegmentMS:      50,
		LoudnessGain:   15,
		BrightnessRef:  5000,
		StrengthWeight: 0.6,
		LoudnessWeight: 0.4,
		IntensityFloor: 0.1,
		SharpAbove:     0.5,
		MediumAbove:    0.25,
		DurationBaseMS: 20,
		DurationGainMS: 30,
	}
}

// FullProfile analyzes whole seconds on a 512-sample onset hop.
func FullProfile() Config {
	return Config{
		Profile:    ProfileFull,
		SampleRate: 22050,
		OnsetHop:   512,
		Threshold:  detect.LinearThreshold,
		Precise:    defaultPreciseScoring(),
		Full:       defaultFullScoring(),
	}
}

// PreciseProfile uses a 256-sample onset hop, backtracking, the linear
// threshold and 0.6/0.4 weighting.
func PreciseProfile() Config {
	cfg := FullProfile()
	cfg.Profile = ProfilePrecise
	cfg.OnsetHop = 256
	cfg.Backtrack = true

	return cfg
}

// BalancedProfile favours onset strength over loudness (0.7/0.3), uses the
// scaled threshold and asks for brighter sounds before calling them sharp.
func BalancedProfile() Config {
	cfg := PreciseProfile()
	cfg.Profile = ProfileBalanced
	cfg.Threshold = detect.ScaledThreshold
	cfg.Precise.StrengthWeight = 0.7
	cfg.Precise.LoudnessWeight = 0.3
	cfg.Precise.SharpAbove = 0.6
	cfg.Precise.MediumAbove = 0.3

	return cfg
}

var profiles = map[string]func() Config{
	ProfileFull:     FullProfile,
	ProfilePrecise:  PreciseProfile,
	ProfileBalanced: BalancedProfile,
}

// Profiles lists the named profiles.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// ProfileByName returns a named profile.
func ProfileByName(name string) (Config, error) {
	build, ok := profiles[name]
	if !ok {
		return Config{}, errs.Parameter("haptic.ProfileByName", "profile", name,
			fmt.Sprintf("unknown profile, want one of %v", Profiles()))
	}

	return build(), nil
}

// LoadConfig reads a JSON config. Fields missing from the file keep the
// values of the profile the file names, or of PreciseProfile.
func LoadConfig(path string) (Config, error) {
	const op = "haptic.LoadConfig"

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.Input(op, "cannot read config", err)
	}

	var head struct {
		Profile string `json:"profile"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Config{}, errs.Input(op, "malformed config", err)
	}

	cfg := PreciseProfile()
	if head.Profile != "" {
		if cfg, err = ProfileByName(head.Profile); err != nil {
			return Config{}, err
		}
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errs.Input(op, "malformed config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	const op = "haptic.Config"

	switch {
	case c.SampleRate <= 0:
		return errs.Parameter(op, "sample_rate", c.SampleRate, "must be positive")
	case c.OnsetHop <= 0:
		return errs.Parameter(op, "onset_hop", c.OnsetHop, "must be positive")
	}
	if err := c.Threshold.Validate(); err != nil {
		return err
	}
	if err := c.Precise.validate(op); err != nil {
		return err
	}

	return c.Full.validate(op)
}

func (p PreciseScoring) validate(op string) error {
	switch {
	case p.SegmentMS <= 0:
		return errs.Parameter(op, "segment_ms", p.SegmentMS, "must be positive")
	case p.LoudnessGain <= 0:
		return errs.Parameter(op, "loudness_gain", p.LoudnessGain, "must be positive")
	case p.BrightnessRef <= 0:
		return errs.Parameter(op, "brightness_ref_hz", p.BrightnessRef, "must be positive")
	case p.MediumAbove > p.SharpAbove:
		return errs.Parameter(op, "medium_above", p.MediumAbove, "must not exceed sharp_above")
	case p.DurationBaseMS < 0 || p.DurationGainMS < 0:
		return errs.Parameter(op, "duration_base_ms", p.DurationBaseMS, "durations must not be negative")
	}

	units := []struct {
		field string
		v     float64
	}{
		{"strength_weight", p.StrengthWeight},
		{"loudness_weight", p.LoudnessWeight},
		{"intensity_floor", p.IntensityFloor},
		{"sharp_above", p.SharpAbove},
		{"medium_above", p.MediumAbove},
	}
	for _, u := range units {
		if err := errs.Unit(op, u.field, u.v); err != nil {
			return err
		}
	}

	return nil
}

func (f FullScoring) validate(op string) error {
	switch {
	case f.RMSGain <= 0:
		return errs.Parameter(op, "rms_gain", f.RMSGain, "must be positive")
	case f.LightAt > f.MediumAt || f.MediumAt > f.StrongAt:
		return errs.Parameter(op, "medium_at", f.MediumAt, "strength levels must be ordered")
	case f.SliceImpacts < 0:
		return errs.Parameter(op, "slice_impacts", f.SliceImpacts, "must not be negative")
	case f.ImpactGapMS < 0:
		return errs.Parameter(op, "impact_gap_ms", f.ImpactGapMS, "must not be negative")
	}

	levels := []struct {
		field string
		v     int
	}{
		{"strong_at", f.StrongAt},
		{"medium_at", f.MediumAt},
		{"light_at", f.LightAt},
		{"vibrate_at", f.VibrateAt},
		{"silence_below", f.SilenceBelow},
		{"slice_above", f.SliceAbove},
		{"impact_at", f.ImpactAt},
	}
	for _, l := range levels {
		if l.v < 0 || l.v > 100 {
			return errs.Parameter(op, l.field, l.v, "must be a percentage")
		}
	}

	return errs.Unit(op, "impact_threshold", f.ImpactThreshold)
}
