// SPDX-License-Identifier: EPL-2.0

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ik5/hapsync/haptic"
)

const generatedBy = "Generated by hapsync"

// FullSwift emits a Core Haptics tuple array with one entry per second.
func FullSwift(w io.Writer, tl *haptic.FullTimeline) error {
	var b strings.Builder

	b.WriteString("// iOS Core Haptics - " + generatedBy + "\n")
	b.WriteString("let hapticTimeline: [(second: Int, intensity: Float, vibrate: Bool)] = [\n")
	for _, s := range tl.Timeline {
		fmt.Fprintf(&b, "    (%d, %.2f, %t),\n", s.Second, float64(s.Intensity)/100, s.Vibrate)
	}
	b.WriteString("]\n")

	return write(w, b.String())
}

// PreciseSwift emits a tuple array with one entry per event.
func PreciseSwift(w io.Writer, tl *haptic.PreciseTimeline) error {
	var b strings.Builder

	b.WriteString("// iOS Core Haptics - " + generatedBy + "\n")
	b.WriteString("let hapticEvents: [(time: Double, intensity: Float, type: String)] = [\n")
	for _, e := range tl.Events {
		fmt.Fprintf(&b, "    (%.3f, %.2f, %q),\n", e.TimeSec, e.Intensity, e.Type)
	}
	b.WriteString("]\n")

	return write(w, b.String())
}
