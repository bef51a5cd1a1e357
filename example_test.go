// SPDX-License-Identifier: EPL-2.0

package hapsync_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ik5/hapsync"
	"github.com/ik5/hapsync/audio"
	"github.com/ik5/hapsync/export"
	"github.com/ik5/hapsync/formats/wav"
	"github.com/ik5/hapsync/haptic"
	"github.com/ik5/hapsync/internal/audiotest"
)

// exampleFile writes two seconds of silence with a click at 1.0 s.
func exampleFile(rate int) (string, func()) {
	dir, err := os.MkdirTemp("", "hapsync-example")
	if err != nil {
		panic(err)
	}

	x := audiotest.Silence(rate, 2)
	audiotest.AddClick(x, rate, 1.0, 0.9)
	buf, _ := audio.NewBuffer(x, rate)

	path := filepath.Join(dir, "knock.wav")
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	if err := wav.WriteBuffer(f, buf); err != nil {
		panic(err)
	}
	f.Close()

	return path, func() { os.RemoveAll(dir) }
}

// Example_precise detects the single knock in a file and prints it.
func Example_precise() {
	cfg := haptic.PreciseProfile()
	path, cleanup := exampleFile(cfg.SampleRate)
	defer cleanup()

	p, err := hapsync.New(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	tl, err := p.Precise(path, 0.8, 30*time.Millisecond)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d event(s), first is %s\n", tl.TotalEvents, tl.Events[0].Type)
	// Output: 1 event(s), first is sharp
}

// Example_full prints the per-second timeline as JSON.
func Example_full() {
	cfg := haptic.FullProfile()
	path, cleanup := exampleFile(cfg.SampleRate)
	defer cleanup()

	p, err := hapsync.New(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	tl, err := p.Full(path)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d seconds\n", tl.TotalSeconds)
	if err := export.WriteFull(os.Stdout, tl, export.FormatJSON); err != nil {
		fmt.Println(err)
	}
}
