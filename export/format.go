// SPDX-License-Identifier: EPL-2.0

package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ik5/hapsync/haptic"
)

type Format string

const (
	FormatVisual  Format = "visual"
	FormatJSON    Format = "json"
	FormatSwift   Format = "swift"
	FormatAndroid Format = "android"
	FormatUnity   Format = "unity"
)

var ErrUnknownFormat = errors.New("unknown output format")

var formats = []Format{FormatVisual, FormatJSON, FormatSwift, FormatAndroid, FormatUnity}

// Formats lists every supported format.
func Formats() []Format {
	return append([]Format(nil), formats...)
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// WriteFull renders a full-mode timeline in format f.
func WriteFull(w io.Writer, tl *haptic.FullTimeline, f Format) error {
	switch f {
	case FormatVisual:
		return PrintFull(w, tl)
	case FormatJSON:
		return JSON(w, tl)
	case FormatSwift:
		return FullSwift(w, tl)
	case FormatAndroid:
		return FullAndroid(w, tl)
	case FormatUnity:
		return FullUnity(w, tl)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WritePrecise renders a precise-mode timeline in format f.
func WritePrecise(w io.Writer, tl *haptic.PreciseTimeline, f Format) error {
	switch f {
	case FormatVisual:
		return PrintPrecise(w, tl)
	case FormatJSON:
		return JSON(w, tl)
	case FormatSwift:
		return PreciseSwift(w, tl)
	case FormatAndroid:
		return PreciseAndroid(w, tl)
	case FormatUnity:
		return PreciseUnity(w, tl)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
