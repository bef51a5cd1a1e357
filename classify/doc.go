// SPDX-License-Identifier: EPL-2.0

// Package classify labels audio with sound classes over a sliding window.
//
// A window of 15600 samples (0.975 s at 16 kHz) slides over the signal in
// 8000-sample (0.5 s) steps. Every class whose score reaches the threshold,
// and whose label contains one of the optional allow-list terms, becomes an
// Event. Events are sorted by start time, then by descending confidence.
//
// The model and its class map are loaded once into an Engine and shared
// read-only by every call:
//
//	engine, err := classify.Load("model.json", "class_map.csv", logger)
//	if err != nil {
//	    return err
//	}
//	tl, err := engine.Classify(ctx, buf, "clip.wav", classify.Options{Threshold: 0.15})
package classify
