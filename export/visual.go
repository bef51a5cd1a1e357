// SPDX-License-Identifier: EPL-2.0

package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ik5/hapsync/classify"
	"github.com/ik5/hapsync/haptic"
)

// SummaryLimit caps the label summary of PrintClassification.
const SummaryLimit = 15

var actionLabels = map[haptic.Action]string{
	haptic.ActionSilence: "SILENCE",
	haptic.ActionSlice:   "SLICE!",
	haptic.ActionImpact:  "IMPACT",
	haptic.ActionSound:   "sound",
}

// center pads s to width, with the odd space on the right.
func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}

	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}

// levelBar draws a 20-cell bar whose texture darkens with intensity.
func levelBar(pct int) string {
	cells := pct / 5
	switch {
	case pct < 5:
		return strings.Repeat("░", 20)
	case pct < 20:
		return strings.Repeat("▒", cells) + strings.Repeat("░", 20-cells)
	case pct < 50:
		return strings.Repeat("▓", cells) + strings.Repeat("░", 20-cells)
	default:
		return strings.Repeat("█", min(20, cells))
	}
}

func vibrateLabel(s haptic.Slot) string {
	switch {
	case s.Strength == haptic.StrengthStrong:
		return "STRONG"
	case s.Strength == haptic.StrengthLight:
		return "low"
	case s.Vibrate:
		return "YES"
	default:
		return "NO"
	}
}

// PrintFull draws one table row per second.
func PrintFull(w io.Writer, tl *haptic.FullTimeline) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nFULL AUDIO ANALYSIS: %s\n", tl.File)
	fmt.Fprintf(&b, "   Duration: %gs | Vibration seconds: %d\n", tl.DurationSec, tl.VibrationSeconds)
	b.WriteString(strings.Repeat("=", 65) + "\n\n")
	b.WriteString("SEC │ VIBRATE │ INTENSITY │ VISUAL               │ ACTION\n")
	b.WriteString(strings.Repeat("─", 65) + "\n")

	for _, s := range tl.Timeline {
		action, ok := actionLabels[s.Action]
		if !ok {
			action = string(s.Action)
		}

		fmt.Fprintf(&b, "%2ds │ %s │ %3d%%      │ %s │ %s\n",
			s.Second, center(vibrateLabel(s), 7), s.Intensity, levelBar(s.Intensity), action)
	}
	b.WriteString(strings.Repeat("─", 65) + "\n")

	return write(w, b.String())
}

// PrintPrecise draws one row per event with a ten-cell intensity bar.
func PrintPrecise(w io.Writer, tl *haptic.PreciseTimeline) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nPRECISE HAPTIC EVENTS: %s\n", tl.File)
	fmt.Fprintf(&b, "   Duration: %gs | Events: %d\n", tl.DurationSec, tl.TotalEvents)
	b.WriteString(strings.Repeat("-", 50) + "\n")
	fmt.Fprintf(&b, "%8s │ %s │ %s │ Visual\n", "Time", center("Intensity", 9), center("Type", 7))
	b.WriteString(strings.Repeat("-", 50) + "\n")

	for _, e := range tl.Events {
		fmt.Fprintf(&b, "%7.2fs │ %s%%  │ %s │ %s\n",
			e.TimeSec,
			center(fmt.Sprint(e.IntensityPercent), 7),
			center(string(e.Type), 7),
			strings.Repeat("█", int(e.Intensity*10)))
	}

	return write(w, b.String())
}

// PrintClassification draws the label summary and the timeline. Unless
// showAll is set only the most confident label of each window is shown.
func PrintClassification(w io.Writer, tl *classify.Timeline, showAll bool) error {
	var b strings.Builder

	if len(tl.Timeline) == 0 {
		b.WriteString("\nNo sounds detected above threshold.\n")
		return write(w, b.String())
	}

	fmt.Fprintf(&b, "\nFound %d sound events\n\n", tl.TotalEvents)
	b.WriteString("Sound Summary:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")

	summary := tl.Summary()
	for _, s := range summary[:min(len(summary), SummaryLimit)] {
		fmt.Fprintf(&b, "  %-30s | %3dx | max: %.3f\n", s.Sound, s.Count, s.MaxConfidence)
	}

	b.WriteString("\nTimeline (by timestamp):\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")

	current := -1.0
	for _, e := range tl.Timeline {
		if !showAll && e.TimeStart == current {
			continue
		}
		current = e.TimeStart

		fmt.Fprintf(&b, "  %6.2fs - %6.2fs | %-25s | %s %.3f\n",
			e.TimeStart, e.TimeEnd, e.Sound, strings.Repeat("█", int(e.Confidence*30)), e.Confidence)
	}

	return write(w, b.String())
}
