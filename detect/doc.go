// SPDX-License-Identifier: EPL-2.0

// Package detect turns an onset-strength envelope into discrete peaks.
//
// The envelope is normalized to [0,1]. A frame becomes a candidate when it
// is the largest value in a short window ending just after it and rises at
// least Threshold above the mean of a wider neighbourhood. Candidates are
// optionally moved back to the preceding local minimum, then accepted
// greedily from left to right, dropping any candidate closer than MinGap to
// the last accepted one. Strengths are finally divided by the largest
// accepted strength.
//
// Threshold is usually derived from a user-facing sensitivity through a
// ThresholdPolicy:
//
//	th, err := detect.LinearThreshold.Threshold(0.8) // 0.2
//	params := detect.DefaultParams(22050, 256)
//	params.Threshold = th
//	peaks, err := detect.Detect(envelope, params)
package detect
