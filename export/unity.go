// SPDX-License-Identifier: EPL-2.0

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ik5/hapsync/haptic"
)

const unityStruct = `[System.Serializable]
public struct HapticEvent
{
    public float time;
    public float intensity;
    public string type;

    public HapticEvent(float time, float intensity, string type)
    {
        this.time = time;
        this.intensity = intensity;
        this.type = type;
    }
}

`

// FullUnity emits a C# HapticEvent array with one entry per vibrating
// second, typed by its action.
func FullUnity(w io.Writer, tl *haptic.FullTimeline) error {
	var b strings.Builder

	b.WriteString("// Unity - " + generatedBy + "\n")
	b.WriteString(unityStruct)
	b.WriteString("public static readonly HapticEvent[] HapticTimeline = {\n")
	for _, s := range tl.Timeline {
		if !s.Vibrate {
			continue
		}
		fmt.Fprintf(&b, "    new HapticEvent(%d.0f, %.2ff, %q),\n", s.Second, float64(s.Intensity)/100, s.Action)
	}
	b.WriteString("};\n")

	return write(w, b.String())
}

// PreciseUnity emits a C# HapticEvent array with one entry per event.
func PreciseUnity(w io.Writer, tl *haptic.PreciseTimeline) error {
	var b strings.Builder

	b.WriteString("// Unity - " + generatedBy + "\n")
	b.WriteString(unityStruct)
	b.WriteString("public static readonly HapticEvent[] HapticTimeline = {\n")
	for _, e := range tl.Events {
		fmt.Fprintf(&b, "    new HapticEvent(%.3ff, %.3ff, %q),\n", e.TimeSec, e.Intensity, e.Type)
	}
	b.WriteString("};\n")

	return write(w, b.String())
}
