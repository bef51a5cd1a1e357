// SPDX-License-Identifier: EPL-2.0

// Package features computes the per-frame signals the detectors consume:
// RMS energy, spectral centroid, the onset-strength envelope and log-mel
// band energies.
//
// Framing follows the usual centered convention. Frame i covers the samples
// around i*hop, the signal is zero-padded by half a frame on both sides, and
// a signal of n samples yields 1 + n/hop frames. All spectra use a Hann
// window and github.com/mjibson/go-dsp for the transform.
//
// An Extractor is immutable after New and safe for concurrent use.
package features
