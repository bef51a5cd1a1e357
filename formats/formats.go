// SPDX-License-Identifier: EPL-2.0

// Package formats wires every decoder into an extension-keyed registry and
// loads files into analysis buffers.
package formats

import (
	"errors"
	"fmt"
	"os"

	"github.com/ik5/hapsync/audio"
	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/formats/aiff"
	"github.com/ik5/hapsync/formats/flac"
	"github.com/ik5/hapsync/formats/mp3"
	"github.com/ik5/hapsync/formats/vorbis"
	"github.com/ik5/hapsync/formats/wav"
)

// ErrUnsupportedFormat is returned for extensions with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// NewRegistry returns a registry with every built-in decoder.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("flac", flac.Decoder{})

	return reg
}

// Supported reports whether path has a registered extension.
func Supported(reg *audio.Registry, path string) bool {
	_, ok := reg.ForPath(path)
	return ok
}

// Load decodes path into a mono buffer at sampleRate. Every failure is an
// input error (errs.ErrInput).
func Load(reg *audio.Registry, path string, sampleRate int) (*audio.Buffer, error) {
	const op = "formats.Load"

	dec, ok := reg.ForPath(path)
	if !ok {
		return nil, errs.Input(op, path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Input(op, "cannot open audio file", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, errs.Input(op, fmt.Sprintf("cannot decode %s", path), err)
	}
	defer src.Close()

	buf, err := audio.Collect(src, sampleRate, 4096)
	if err != nil {
		return nil, errs.Input(op, fmt.Sprintf("cannot read %s", path), err)
	}

	return buf, nil
}
