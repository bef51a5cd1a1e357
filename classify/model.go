// SPDX-License-Identifier: EPL-2.0

package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ik5/hapsync/features"
)

// Model scores one window of 16 kHz mono samples. Score must be safe for
// concurrent use and return one probability in [0,1] per class.
type Model interface {
	Classes() int
	Score(window []float32) ([]float64, error)
}

// ModelSpec is the JSON form of a LinearModel.
type ModelSpec struct {
	FFT     int         `json:"n_fft"`
	Hop     int         `json:"hop_length"`
	Mels    int         `json:"mels"`
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// LinearModel summarizes a window as the per-band mean and standard
// deviation of its log-mel energies and applies a sigmoid linear layer.
type LinearModel struct {
	fft, hop, mels int

	weights *mat.Dense // classes x 2*mels
	bias    *mat.VecDense
}

func NewLinearModel(spec ModelSpec) (*LinearModel, error) {
	if spec.FFT <= 0 || spec.Hop <= 0 || spec.Mels <= 0 {
		return nil, fmt.Errorf("%w: n_fft, hop_length and mels must be positive", ErrModelShape)
	}

	classes := len(spec.Weights)
	width := 2 * spec.Mels
	if classes == 0 || len(spec.Bias) != classes {
		return nil, fmt.Errorf("%w: %d weight rows, %d biases", ErrModelShape, classes, len(spec.Bias))
	}

	w := mat.NewDense(classes, width, nil)
	for i, row := range spec.Weights {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d weights, want %d", ErrModelShape, i, len(row), width)
		}
		w.SetRow(i, row)
	}

	return &LinearModel{
		fft:     spec.FFT,
		hop:     spec.Hop,
		mels:    spec.Mels,
		weights: w,
		bias:    mat.NewVecDense(classes, append([]float64(nil), spec.Bias...)),
	}, nil
}

// LoadLinearModel reads a ModelSpec from a JSON file.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var spec ModelSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	return NewLinearModel(spec)
}

func (m *LinearModel) Classes() int {
	r, _ := m.weights.Dims()
	return r
}

// Embed returns the feature vector of a window.
func (m *LinearModel) Embed(window []float32) *mat.VecDense {
	x := make([]float64, len(window))
	for i, v := range window {
		x[i] = float64(v)
	}

	out := mat.NewVecDense(2*m.mels, nil)
	logmel := features.LogMel(x, SampleRate, m.fft, m.hop, m.mels)
	if logmel == nil {
		return out
	}

	frames, _ := logmel.Dims()
	band := make([]float64, frames)
	for b := range m.mels {
		mat.Col(band, b, logmel)
		mean, std := stat.MeanStdDev(band, nil)
		if math.IsNaN(std) {
			std = 0
		}
		out.SetVec(b, mean)
		out.SetVec(m.mels+b, std)
	}

	return out
}

func (m *LinearModel) Score(window []float32) ([]float64, error) {
	classes := m.Classes()

	logits := mat.NewVecDense(classes, nil)
	logits.MulVec(m.weights, m.Embed(window))
	logits.AddVec(logits, m.bias)

	scores := make([]float64, classes)
	for i := range scores {
		scores[i] = 1 / (1 + math.Exp(-logits.AtVec(i)))
	}

	return scores, nil
}
