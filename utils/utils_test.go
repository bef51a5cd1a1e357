// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCubicInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		y0, y1, y2, y3 float64
		x              float64
		want           float64
		tolerance      float64
	}{
		{"start returns y1", 0, 1, 2, 3, 0, 1, 1e-9},
		{"end returns y2", 0, 1, 2, 3, 1, 2, 1e-9},
		{"linear data stays linear", 1, 2, 3, 4, 0.25, 2.25, 1e-9},
		{"flat zero", 0, 0, 0, 0, 0.5, 0, 1e-9},
		{"symmetric step", -1, -0.5, 0.5, 1, 0.5, 0, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("CubicInterpolate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCubicInterpolate_Float32(t *testing.T) {
	t.Parallel()

	if got := CubicInterpolate[float32](0.5, 0.9, 0.7, 0.3, 0); got != 0.9 {
		t.Errorf("CubicInterpolate(x=0) = %v, want 0.9", got)
	}
}

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, math.MaxInt16},
		{-1, math.MinInt16},
		{1.5, math.MaxInt16},
		{-100, math.MinInt16},
		{0.5, 16383},
		{-0.5, -16383},
	}

	for _, tt := range tests {
		if got := Float32ToInt16(tt.in); got != tt.want {
			t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := Clamp(1.4, 0.1, 1.0); got != 1.0 {
		t.Errorf("Clamp(1.4) = %v, want 1", got)
	}
	if got := Clamp(0.01, 0.1, 1.0); got != 0.1 {
		t.Errorf("Clamp(0.01) = %v, want 0.1", got)
	}
	if got := Clamp(120, 0, 100); got != 100 {
		t.Errorf("Clamp(120) = %v, want 100", got)
	}
}

func TestRound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{1.23456, 3, 1.235},
		{0.125, 2, 0.13},
		{2.5, 0, 3},
		{-1.23456, 2, -1.23},
	}

	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}

func BenchmarkCubicInterpolate(b *testing.B) {
	var result float32
	b.ReportAllocs()

	for i := range b.N {
		result = CubicInterpolate(0.5, 1.0, 0.8, 0.3, float32(i%100)/100)
	}

	_ = result
}
