// SPDX-License-Identifier: EPL-2.0

// Package hapsync turns audio files into haptic timelines and sound-label
// timelines.
//
// # Haptics
//
// Full mode produces one slot per second of audio, telling a device whether
// and how hard to vibrate. Precise mode produces one event per detected
// onset, with an intensity, a tactile type (sharp, medium, heavy) and a
// duration hint:
//
//	p, _ := hapsync.New(haptic.PreciseProfile())
//	tl, err := p.Precise("clip.wav", 0.8, 30*time.Millisecond)
//
// Timelines are plain JSON-tagged structs; the export subpackage renders
// them for iOS Core Haptics, Android VibrationEffect, Unity, or a terminal.
//
// # Sound labels
//
// With a classifier attached, Classify slides a 0.975 s window over the
// audio at 16 kHz and reports every class scoring above a threshold:
//
//	engine, _ := classify.Load("model.json", "class_map.csv", nil)
//	p, _ := hapsync.New(haptic.FullProfile(), hapsync.WithEngine(engine))
//	tl, err := p.Classify(ctx, "clip.wav", classify.Options{Threshold: 0.1})
//
// # Formats
//
// WAV, AIFF, MP3, Ogg Vorbis and FLAC are decoded through the formats
// subpackage and resampled to mono at the rate each analysis needs.
//
// See the individual subpackages for more detailed documentation.
package hapsync
