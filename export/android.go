// SPDX-License-Identifier: EPL-2.0

package export

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ik5/hapsync/haptic"
)

// PulseMS is how long a vibrating second buzzes.
const PulseMS = 200

// Waveform is a wait-then-vibrate encoding: Timings[i] lasts Timings[i] ms
// at Amplitudes[i], where zero is a pause.
type Waveform struct {
	Timings    []int64
	Amplitudes []int
}

func (wf *Waveform) add(ms int64, amplitude int) {
	wf.Timings = append(wf.Timings, ms)
	wf.Amplitudes = append(wf.Amplitudes, amplitude)
}

// amplitude maps a 0..100 intensity to 0..255.
func amplitude(pct int) int {
	return min(255, pct*255/100)
}

// FullWaveform pulses for PulseMS at the start of every vibrating second.
func FullWaveform(tl *haptic.FullTimeline) Waveform {
	var wf Waveform

	var last int64
	for _, s := range tl.Timeline {
		if !s.Vibrate {
			continue
		}

		if gap := int64(s.Second)*1000 - last; gap > 0 {
			wf.add(gap, 0)
		}
		wf.add(PulseMS, amplitude(s.Intensity))
		last = int64(s.Second+1) * 1000
	}

	return wf
}

// PreciseWaveform buzzes for each event's duration hint. An event that
// starts before the previous buzz ends follows it without a pause.
func PreciseWaveform(tl *haptic.PreciseTimeline) Waveform {
	var wf Waveform

	var last int64
	for _, e := range tl.Events {
		start := int64(math.Round(e.TimeMS))
		if gap := start - last; gap > 0 {
			wf.add(gap, 0)
		}
		wf.add(int64(e.DurationMS), amplitude(e.IntensityPercent))
		last = max(start, last) + int64(e.DurationMS)
	}

	return wf
}

func FullAndroid(w io.Writer, tl *haptic.FullTimeline) error {
	return writeAndroid(w, FullWaveform(tl))
}

func PreciseAndroid(w io.Writer, tl *haptic.PreciseTimeline) error {
	return writeAndroid(w, PreciseWaveform(tl))
}

func writeAndroid(w io.Writer, wf Waveform) error {
	timings := make([]string, len(wf.Timings))
	for i, t := range wf.Timings {
		timings[i] = strconv.FormatInt(t, 10)
	}
	amps := make([]string, len(wf.Amplitudes))
	for i, a := range wf.Amplitudes {
		amps[i] = strconv.Itoa(a)
	}

	var b strings.Builder
	b.WriteString("// Android VibrationEffect - " + generatedBy + "\n")
	b.WriteString("long[] timings = {" + strings.Join(timings, ", ") + "};\n")
	b.WriteString("int[] amplitudes = {" + strings.Join(amps, ", ") + "};\n")
	b.WriteString("vibrator.vibrate(VibrationEffect.createWaveform(timings, amplitudes, -1));\n")

	return write(w, b.String())
}
