// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes WAV files using github.com/go-audio/wav.
//
// The decoder accepts integer PCM at 16, 24 or 32 bits, any channel count
// and any sample rate, and yields an audio.Source of float32 samples in
// [-1.0, 1.0]. Inputs that cannot seek are buffered in memory first.
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not RIFF/WAVE
//	}
//
// WriteWAV16 and WriteBuffer produce mono 16-bit files, mostly for test
// fixtures and for dumping the analysed signal:
//
//	f, _ := os.Create("analysed.wav")
//	err := wav.WriteBuffer(f, buf)
package wav
