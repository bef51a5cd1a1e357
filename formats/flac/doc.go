// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files through github.com/gopxl/beep/flac.
//
// beep streams at most two channels; files with more channels are
// down-mixed by beep before they reach the Source.
package flac
