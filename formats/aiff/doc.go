// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// Integer PCM at 16, 24 or 32 bits is supported. go-audio needs an
// io.ReadSeeker; other readers are buffered in memory.
package aiff
