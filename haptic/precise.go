// SPDX-License-Identifier: EPL-2.0

package haptic

import (
	"time"

	"go.uber.org/zap"

	"github.com/ik5/hapsync/audio"
	"github.com/ik5/hapsync/detect"
	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/utils"
)

// Precise detects onsets in buf and scores each one. sensitivity must be in
// [0,1]; higher values find more events. Accepted events are never closer
// than minGap.
func (a *Analyzer) Precise(buf *audio.Buffer, name string, sensitivity float64, minGap time.Duration) (*PreciseTimeline, error) {
	const op = "haptic.Precise"

	threshold, err := a.cfg.Threshold.Threshold(sensitivity)
	if err != nil {
		return nil, err
	}
	if minGap < 0 {
		return nil, errs.Parameter(op, "min_gap", minGap, "must not be negative")
	}

	x, err := a.prepare(op, name, buf)
	if err != nil {
		return nil, err
	}

	tl := &PreciseTimeline{
		File:        name,
		DurationSec: utils.Round(buf.Duration(), 3),
		Sensitivity: sensitivity,
		Events:      []Event{},
	}
	if len(x) < a.feat.FrameLength() {
		return tl, nil
	}

	p := detect.DefaultParams(a.feat.SampleRate(), a.feat.OnsetHop())
	p.Threshold = threshold
	p.MinGap = minGap
	p.Backtrack = a.cfg.Backtrack

	// a frame centered past the last sample cannot hold an event
	env := a.feat.OnsetEnvelope(x)
	hop := a.feat.OnsetHop()
	env = env[:min(len(env), (len(x)+hop-1)/hop)]

	peaks, err := detect.Detect(env, p)
	if err != nil {
		return nil, err
	}

	sr := float64(a.feat.SampleRate())
	segment := int(float64(a.cfg.Precise.SegmentMS) * sr / 1000)

	for _, pk := range peaks {
		start := pk.Frame * hop
		seg := x[start:min(start+segment, len(x))]

		loudness := a.cfg.Precise.Loudness(mean(a.feat.RMS(seg)))
		brightness := a.cfg.Precise.Brightness(mean(a.feat.Centroid(seg)))
		tl.Events = append(tl.Events, a.cfg.Precise.Event(pk.Time, pk.Strength, loudness, brightness))
	}
	tl.TotalEvents = len(tl.Events)

	a.log.Debug("precise timeline",
		zap.String("file", name),
		zap.Float64("sensitivity", sensitivity),
		zap.Float64("threshold", threshold),
		zap.Int("events", tl.TotalEvents))

	return tl, nil
}
