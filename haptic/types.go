// SPDX-License-Identifier: EPL-2.0

package haptic

// EventType is the feel of a precise-mode event.
type EventType string

const (
	TypeSharp  EventType = "sharp"
	TypeMedium EventType = "medium"
	TypeHeavy  EventType = "heavy"
)

// Strength labels a full-mode slot.
type Strength string

const (
	StrengthNone   Strength = "none"
	StrengthLight  Strength = "light"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// Action is what a full-mode slot should play.
type Action string

const (
	ActionSilence Action = "silence"
	ActionSound   Action = "sound"
	ActionImpact  Action = "impact"
	ActionSlice   Action = "slice"
)

// Event is one precise-mode haptic trigger.
type Event struct {
	TimeMS           float64   `json:"time_ms"`
	TimeSec          float64   `json:"time_sec"`
	Intensity        float64   `json:"intensity"`
	IntensityPercent int       `json:"intensity_percent"`
	Type             EventType `json:"type"`
	DurationMS       int       `json:"duration_ms"`
	Strength         float64   `json:"strength"`
	Brightness       float64   `json:"brightness"`
}

// Slot is one second of a full-mode timeline.
type Slot struct {
	Second    int      `json:"second"`
	Intensity int      `json:"intensity"`
	Vibrate   bool     `json:"vibrate"`
	Strength  Strength `json:"strength"`
	Action    Action   `json:"action"`
	Impacts   int      `json:"impacts"`
}

type FullTimeline struct {
	File             string  `json:"file"`
	DurationSec      float64 `json:"duration_sec"`
	TotalSeconds     int     `json:"total_seconds"`
	VibrationSeconds int     `json:"vibration_seconds"`
	Timeline         []Slot  `json:"timeline"`
}

type PreciseTimeline struct {
	File        string  `json:"file"`
	DurationSec float64 `json:"duration_sec"`
	TotalEvents int     `json:"total_events"`
	Sensitivity float64 `json:"sensitivity"`
	Events      []Event `json:"events"`
}
