// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/hapsync/audio"
	"github.com/ik5/hapsync/internal/audiotest"
)

// Example_collect drains a stereo 44.1 kHz source into a mono buffer at the
// rate the haptic analysis runs at.
func Example_collect() {
	src := audiotest.NewSineSource(44100, 2, 44100, 440)

	buf, err := audio.Collect(src, 22050, 4096)
	if err != nil {
		fmt.Println("collect:", err)
		return
	}

	fmt.Printf("%d Hz, %.1f s\n", buf.SampleRate(), buf.Duration())
	// Output: 22050 Hz, 1.0 s
}

// Example_registry resolves a decoder from a file name.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("wav", nil)
	registry.Register("ogg", nil)

	_, ok := registry.ForPath("hit.OGG")
	fmt.Println(ok, registry.Formats())
	// Output: true [ogg wav]
}
