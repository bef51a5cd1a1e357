// SPDX-License-Identifier: EPL-2.0

// Package haptic builds vibration timelines from decoded audio.
//
// Two modes are available:
//   - Full mode emits one Slot for every second of audio, silent seconds
//     included, with an intensity percentage, a strength label, an action
//     and the number of impacts heard in that second.
//   - Precise mode emits one Event per detected onset with a normalized
//     intensity, a sharp/medium/heavy type and a vibration length hint.
//
// Every constant used to score windows lives in Config. FullProfile,
// PreciseProfile and BalancedProfile are the named defaults; a JSON file
// may override any of them (see LoadConfig).
//
// Zero-length or silent audio is not an error. The Analyzer logs an
// errs.ErrDegenerateInput warning and returns a valid, empty or all-silent,
// timeline.
package haptic
