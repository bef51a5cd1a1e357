// SPDX-License-Identifier: EPL-2.0

package classify

import (
	"cmp"
	"slices"
	"strings"
)

// Event is one label heard in one window.
type Event struct {
	TimeStart  float64 `json:"time_start"`
	TimeEnd    float64 `json:"time_end"`
	TimeCenter float64 `json:"time_center"`
	Sound      string  `json:"sound"`
	Confidence float64 `json:"confidence"`
	ClassID    int     `json:"class_id"`
}

type Timeline struct {
	File          string  `json:"file"`
	Duration      float64 `json:"duration"`
	SampleRate    int     `json:"sample_rate"`
	ChunkDuration float64 `json:"chunk_duration"`
	HopDuration   float64 `json:"hop_duration"`
	Threshold     float64 `json:"threshold"`
	TotalEvents   int     `json:"total_events"`
	Timeline      []Event `json:"timeline"`
}

// sortEvents orders events by start time, then by descending confidence.
// Ties keep their order.
func sortEvents(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		if c := cmp.Compare(a.TimeStart, b.TimeStart); c != 0 {
			return c
		}

		return cmp.Compare(b.Confidence, a.Confidence)
	})
}

// Sounds returns the events whose label contains name, ignoring case.
func (t *Timeline) Sounds(name string) []Event {
	name = strings.ToLower(name)

	var out []Event
	for _, ev := range t.Timeline {
		if strings.Contains(strings.ToLower(ev.Sound), name) {
			out = append(out, ev)
		}
	}

	return out
}

// SoundSummary aggregates every event of one label.
type SoundSummary struct {
	Sound         string    `json:"sound"`
	Count         int       `json:"count"`
	MaxConfidence float64   `json:"max_confidence"`
	Centers       []float64 `json:"centers"`
}

// Summary groups events by label, most frequent first. Labels with equal
// counts keep the order they were first heard in.
func (t *Timeline) Summary() []SoundSummary {
	index := make(map[string]int)

	var out []SoundSummary
	for _, ev := range t.Timeline {
		i, ok := index[ev.Sound]
		if !ok {
			i = len(out)
			index[ev.Sound] = i
			out = append(out, SoundSummary{Sound: ev.Sound})
		}

		s := &out[i]
		s.Count++
		s.MaxConfidence = max(s.MaxConfidence, ev.Confidence)
		s.Centers = append(s.Centers, ev.TimeCenter)
	}

	slices.SortStableFunc(out, func(a, b SoundSummary) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return out
}
