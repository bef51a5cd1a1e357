// SPDX-License-Identifier: EPL-2.0

// Package watch re-runs an analysis whenever an audio file in a directory
// is created or rewritten.
//
// Editors and encoders usually write a file in several bursts, so events
// for the same path are debounced before the handler runs.
package watch
