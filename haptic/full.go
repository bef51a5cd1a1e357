// SPDX-License-Identifier: EPL-2.0

package haptic

import (
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/ik5/hapsync/audio"
	"github.com/ik5/hapsync/detect"
	"github.com/ik5/hapsync/utils"
)

// Full builds the per-second timeline of buf. Every second that holds
// samples gets a slot, the partial final second included.
func (a *Analyzer) Full(buf *audio.Buffer, name string) (*FullTimeline, error) {
	const op = "haptic.Full"

	x, err := a.prepare(op, name, buf)
	if err != nil {
		return nil, err
	}

	sr := a.feat.SampleRate()
	seconds := int(math.Ceil(float64(len(x)) / float64(sr)))
	tl := &FullTimeline{
		File:        name,
		DurationSec: utils.Round(buf.Duration(), 2),
		Timeline:    make([]Slot, 0, seconds),
	}
	if seconds == 0 {
		return tl, nil
	}

	rms := a.feat.RMS(x)
	impacts, err := a.impacts(x, seconds)
	if err != nil {
		return nil, err
	}

	hop := float64(a.feat.HopLength())
	for s := range seconds {
		lo := min(int(float64(s*sr)/hop), len(rms))
		hi := min(int(float64((s+1)*sr)/hop), len(rms))

		var loudest float64
		if hi > lo {
			loudest = math.Max(floats.Max(rms[lo:hi]), 0)
		}

		slot := a.cfg.Full.Slot(s, loudest, impacts[s])
		if slot.Vibrate {
			tl.VibrationSeconds++
		}
		tl.Timeline = append(tl.Timeline, slot)
	}
	tl.TotalSeconds = len(tl.Timeline)

	a.log.Debug("full timeline",
		zap.String("file", name),
		zap.Int("seconds", tl.TotalSeconds),
		zap.Int("vibrating", tl.VibrationSeconds))

	return tl, nil
}

// impacts counts the onsets in each second using the shared detector with
// the fixed impact threshold.
func (a *Analyzer) impacts(x []float64, seconds int) ([]int, error) {
	p := detect.DefaultParams(a.feat.SampleRate(), a.feat.OnsetHop())
	p.Threshold = a.cfg.Full.ImpactThreshold
	p.MinGap = time.Duration(a.cfg.Full.ImpactGapMS) * time.Millisecond

	counts := make([]int, seconds)

	if a.cfg.Full.ImpactsPerSecond {
		sr := a.feat.SampleRate()
		for s := range seconds {
			seg := x[s*sr : min((s+1)*sr, len(x))]
			if len(seg) < a.feat.FrameLength() {
				continue
			}

			peaks, err := detect.Detect(a.feat.OnsetEnvelope(seg), p)
			if err != nil {
				return nil, err
			}
			counts[s] = len(peaks)
		}

		return counts, nil
	}

	peaks, err := detect.Detect(a.feat.OnsetEnvelope(x), p)
	if err != nil {
		return nil, err
	}

	for _, pk := range peaks {
		if s := int(pk.Time); s < seconds {
			counts[s]++
		}
	}

	return counts, nil
}
