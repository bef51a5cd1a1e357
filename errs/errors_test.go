// SPDX-License-Identifier: EPL-2.0

package errs

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"
)

func TestError_IsMatchesByKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"input matches input", Input("load", "open failed", io.EOF), ErrInput, true},
		{"input is not parameter", Input("load", "open failed", nil), ErrParameter, false},
		{"parameter matches", Parameter("detect", "sensitivity", 2.0, "bad"), ErrParameter, true},
		{"degenerate matches", Degenerate("full", "empty"), ErrDegenerateInput, true},
		{"wrapped parameter", fmt.Errorf("run: %w", Parameter("x", "y", 1, "z")), ErrParameter, true},
		{"plain error", errors.New("boom"), ErrInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_UnwrapCause(t *testing.T) {
	t.Parallel()

	err := Input("formats.Load", "cannot decode", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is() failed to reach the cause")
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := Parameter("detect.Detect", "sensitivity", 1.5, "must be within [0,1]")
	msg := err.Error()

	for _, part := range []string{"PARAMETER_ERROR", "detect.Detect", "sensitivity", "1.5"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, missing %q", msg, part)
		}
	}
}

func TestUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v       float64
		wantErr bool
	}{
		{0, false},
		{0.5, false},
		{1, false},
		{-0.01, true},
		{1.01, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := Unit("op", "threshold", tt.v)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unit(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
		}
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if got := KindOf(fmt.Errorf("wrap: %w", Degenerate("op", "silent"))); got != KindDegenerate {
		t.Errorf("KindOf() = %q, want %q", got, KindDegenerate)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}
