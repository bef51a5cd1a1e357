// SPDX-License-Identifier: EPL-2.0

package haptic

import (
	"math"

	"github.com/ik5/hapsync/utils"
)

// Loudness maps the mean RMS of a segment to [0,1].
func (p PreciseScoring) Loudness(meanRMS float64) float64 {
	return math.Min(1, meanRMS*p.LoudnessGain)
}

// Brightness maps the mean spectral centroid of a segment to [0,1].
func (p PreciseScoring) Brightness(meanCentroid float64) float64 {
	return math.Min(1, meanCentroid/p.BrightnessRef)
}

// Type classifies a brightness.
func (p PreciseScoring) Type(brightness float64) EventType {
	switch {
	case brightness > p.SharpAbove:
		return TypeSharp
	case brightness > p.MediumAbove:
		return TypeMedium
	default:
		return TypeHeavy
	}
}

// Intensity blends onset strength and loudness.
func (p PreciseScoring) Intensity(strength, loudness float64) float64 {
	return utils.Clamp(strength*p.StrengthWeight+loudness*p.LoudnessWeight, p.IntensityFloor, 1)
}

// Event scores an onset at t seconds. Values are rounded as they are
// published so a JSON round trip is lossless.
func (p PreciseScoring) Event(t, strength, loudness, brightness float64) Event {
	intensity := p.Intensity(strength, loudness)

	return Event{
		TimeMS:           utils.Round(t*1000, 1),
		TimeSec:          utils.Round(t, 3),
		Intensity:        utils.Round(intensity, 3),
		IntensityPercent: int(intensity * 100),
		Type:             p.Type(brightness),
		DurationMS:       int(p.DurationBaseMS + intensity*p.DurationGainMS),
		Strength:         utils.Round(strength, 3),
		Brightness:       utils.Round(brightness, 3),
	}
}

// Percent maps the loudest RMS of a second to 0..100.
func (f FullScoring) Percent(maxRMS float64) int {
	return int(math.Min(100, math.Round(maxRMS*f.RMSGain)))
}

func (f FullScoring) Strength(pct int) Strength {
	switch {
	case pct >= f.StrongAt:
		return StrengthStrong
	case pct >= f.MediumAt:
		return StrengthMedium
	case pct >= f.LightAt:
		return StrengthLight
	default:
		return StrengthNone
	}
}

func (f FullScoring) Action(pct, impacts int) Action {
	switch {
	case pct < f.SilenceBelow:
		return ActionSilence
	case impacts > f.SliceImpacts && pct > f.SliceAbove:
		return ActionSlice
	case pct >= f.ImpactAt:
		return ActionImpact
	default:
		return ActionSound
	}
}

// Slot scores one second.
func (f FullScoring) Slot(second int, maxRMS float64, impacts int) Slot {
	pct := f.Percent(maxRMS)

	return Slot{
		Second:    second,
		Intensity: pct,
		Vibrate:   pct >= f.VibrateAt,
		Strength:  f.Strength(pct),
		Action:    f.Action(pct, impacts),
		Impacts:   impacts,
	}
}
