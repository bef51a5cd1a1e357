// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming sample pipeline and the in-memory
// buffer every analysis in hapsync works on.
//
// # Source Interface
//
// Decoders and processors implement Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Samples are interleaved float32 values in [-1.0, 1.0].
//
// # Building a Buffer
//
// Analysis is offline and whole-file, so a Source is drained once into an
// immutable mono Buffer at the rate the analysis expects:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	buf, err := audio.Collect(src, 22050, 4096)
//
// Collect chains a Resampler and a MonoMixer in front of the source. Both
// can also be used on their own:
//
//	res := audio.NewResampler(src, 16000)
//	mono := audio.NewMonoMixer(res)
//
// The Resampler uses Catmull-Rom cubic interpolation with a one-pole
// low-pass when downsampling, and passes samples through untouched when the
// rates already match.
//
// # Format Registry
//
// Registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	dec, ok := registry.ForPath("take1.WAV")
//
// # Error Handling
//
// ReadSamples returns io.EOF once the stream is exhausted. A read may
// return n > 0 together with io.EOF.
package audio
