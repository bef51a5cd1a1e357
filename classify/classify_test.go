// SPDX-License-Identifier: EPL-2.0

package classify

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ik5/hapsync/audio"
	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/internal/audiotest"
)

// fixedModel returns the same scores for every window.
type fixedModel []float64

func (m fixedModel) Classes() int { return len(m) }
func (m fixedModel) Score([]float32) ([]float64, error) {
	return append([]float64(nil), m...), nil
}

// energyModel scores class i by the peak level of the window scaled by
// i+1, so different windows produce different events.
type energyModel int

func (m energyModel) Classes() int { return int(m) }
func (m energyModel) Score(w []float32) ([]float64, error) {
	var peak float64
	for _, v := range w {
		peak = math.Max(peak, math.Abs(float64(v)))
	}

	scores := make([]float64, m)
	for i := range scores {
		scores[i] = math.Min(1, peak*float64(i+1)/float64(m))
	}

	return scores, nil
}

type failingModel struct{}

func (failingModel) Classes() int { return 1 }
func (failingModel) Score([]float32) ([]float64, error) {
	return nil, errors.New("tensor exploded")
}

func engine(t *testing.T, m Model, names ...string) *Engine {
	t.Helper()

	e, err := NewEngine(NewTaxonomy(names...), m, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	return e
}

func buffer16k(t *testing.T, samples []float32) *audio.Buffer {
	t.Helper()

	buf, err := audio.NewBuffer(samples, SampleRate)
	if err != nil {
		t.Fatal(err)
	}

	return buf
}

func TestWindowStarts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		pad  bool
		want []int
	}{
		{"empty", 0, false, nil},
		{"shorter than a window", 10000, false, nil},
		{"shorter than a window padded", 10000, true, []int{0}},
		{"exact window", WindowSamples, false, []int{0}},
		{"exact window padded", WindowSamples, true, []int{0, 8000}},
		{"three seconds", 48000, false, []int{0, 8000, 16000, 24000, 32000}},
		{"three seconds padded", 48000, true, []int{0, 8000, 16000, 24000, 32000, 40000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := windowStarts(tt.n, tt.pad); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("windowStarts(%d, %v) = %v, want %v", tt.n, tt.pad, got, tt.want)
			}
		})
	}
}

func TestClassify_SilenceIsEmpty(t *testing.T) {
	t.Parallel()

	model, err := NewLinearModel(ModelSpec{
		FFT: 512, Hop: 160, Mels: 8,
		Weights: [][]float64{make([]float64, 16), make([]float64, 16)},
		Bias:    []float64{-10, -10},
	})
	if err != nil {
		t.Fatal(err)
	}

	e := engine(t, model, "Speech", "Music")
	tl, err := e.Classify(context.Background(), buffer16k(t, audiotest.Silence(SampleRate, 3)), "quiet.wav", Options{Threshold: 0.1})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if tl.TotalEvents != 0 || len(tl.Timeline) != 0 || tl.Timeline == nil {
		t.Errorf("Classify() = %+v, want an empty timeline", tl)
	}
	if tl.Duration != 3 || tl.SampleRate != SampleRate || tl.ChunkDuration != 0.975 || tl.HopDuration != 0.5 {
		t.Errorf("header = %+v", tl)
	}
}

func TestClassify_AllowList(t *testing.T) {
	t.Parallel()

	e := engine(t, fixedModel{0.8, 0.7, 0.05}, "Slice", "Door", "Speech")
	buf := buffer16k(t, audiotest.Silence(SampleRate, 1))

	for _, terms := range [][]string{{"slice"}, {"SLICE"}, {"Sli"}, {"", "lic"}} {
		tl, err := e.Classify(context.Background(), buf, "", Options{Threshold: 0.5, Sounds: terms})
		if err != nil {
			t.Fatal(err)
		}

		if len(tl.Timeline) != 1 {
			t.Fatalf("allow-list %q: got %d events, want 1", terms, len(tl.Timeline))
		}
		if ev := tl.Timeline[0]; ev.Sound != "Slice" || ev.ClassID != 0 || ev.Confidence != 0.8 {
			t.Errorf("allow-list %q: event = %+v", terms, ev)
		}
	}

	tl, err := e.Classify(context.Background(), buf, "", Options{Threshold: 0.5, Sounds: []string{" slice "}})
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Timeline) != 0 {
		t.Errorf("untrimmed term matched: %+v", tl.Timeline)
	}
}

func TestClassify_OrderAndTimes(t *testing.T) {
	t.Parallel()

	e := engine(t, fixedModel{0.3, 0.91236, 0.5}, "Slice", "Door", "Speech")
	tl, err := e.Classify(context.Background(), buffer16k(t, audiotest.Silence(SampleRate, 1)), "", Options{Threshold: 0.3})
	if err != nil {
		t.Fatal(err)
	}

	want := []Event{
		{0, 0.975, 0.488, "Door", 0.9124, 1},
		{0, 0.975, 0.488, "Speech", 0.5, 2},
		{0, 0.975, 0.488, "Slice", 0.3, 0},
	}
	if !reflect.DeepEqual(tl.Timeline, want) {
		t.Errorf("Timeline = %+v, want %+v", tl.Timeline, want)
	}
}

func TestClassify_PadTrailing(t *testing.T) {
	t.Parallel()

	e := engine(t, fixedModel{0.9}, "Tick")
	buf := buffer16k(t, audiotest.Silence(SampleRate, 3))

	plain, err := e.Classify(context.Background(), buf, "", Options{Threshold: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	padded, err := e.Classify(context.Background(), buf, "", Options{Threshold: 0.5, PadTrailing: true})
	if err != nil {
		t.Fatal(err)
	}

	if plain.TotalEvents != 5 || padded.TotalEvents != 6 {
		t.Fatalf("events = %d plain, %d padded; want 5 and 6", plain.TotalEvents, padded.TotalEvents)
	}
	if last := padded.Timeline[5]; last.TimeStart != 2.5 || last.TimeEnd != 3.475 {
		t.Errorf("trailing event = %+v", last)
	}
}

func TestClassify_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	x := audiotest.Silence(SampleRate, 10)
	for i := range 10 {
		audiotest.AddTone(x, SampleRate, float64(i), float64(i)+0.3, 440, float32(i+1)/10)
	}
	buf := buffer16k(t, x)
	e := engine(t, energyModel(4), "a", "b", "c", "d")

	seq, err := e.Classify(context.Background(), buf, "", Options{Threshold: 0.2})
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{2, 3, 8, 64} {
		par, err := e.Classify(context.Background(), buf, "", Options{Threshold: 0.2, Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(seq, par) {
			t.Errorf("workers=%d: parallel timeline differs from sequential", workers)
		}
	}
	if seq.TotalEvents == 0 {
		t.Error("expected events from the tone bursts")
	}
}

func TestClassify_Errors(t *testing.T) {
	t.Parallel()

	ok := engine(t, fixedModel{0.5}, "Tick")
	buf := buffer16k(t, audiotest.Silence(SampleRate, 2))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	wrongRate, err := audio.NewBuffer(make([]float32, 44100), 44100)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		engine *Engine
		ctx    context.Context
		buf    *audio.Buffer
		opts   Options
		want   error
	}{
		{"threshold above one", ok, context.Background(), buf, Options{Threshold: 1.2}, errs.ErrParameter},
		{"negative workers", ok, context.Background(), buf, Options{Threshold: 0.1, Workers: -1}, errs.ErrParameter},
		{"wrong rate", ok, context.Background(), wrongRate, Options{Threshold: 0.1}, errs.ErrParameter},
		{"nil buffer", ok, context.Background(), nil, Options{Threshold: 0.1}, errs.ErrInput},
		{"cancelled", ok, cancelled, buf, Options{Threshold: 0.1}, context.Canceled},
		{"cancelled parallel", ok, cancelled, buf, Options{Threshold: 0.1, Workers: 4}, context.Canceled},
		{"bad score count", engine(t, shortModel{}, "a", "b"), context.Background(), buf, Options{}, ErrScoreDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tl, err := tt.engine.Classify(tt.ctx, tt.buf, "", tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Classify() error = %v, want %v", err, tt.want)
			}
			if tl != nil {
				t.Errorf("Classify() returned a partial timeline")
			}
		})
	}
}

func TestClassify_ModelFailure(t *testing.T) {
	t.Parallel()

	e := engine(t, failingModel{}, "x")
	for _, workers := range []int{1, 4} {
		_, err := e.Classify(context.Background(), buffer16k(t, audiotest.Silence(SampleRate, 3)), "", Options{Workers: workers})
		if err == nil || !strings.Contains(err.Error(), "tensor exploded") {
			t.Errorf("workers=%d: error = %v, want the model failure", workers, err)
		}
	}
}

// shortModel claims two classes but scores one.
type shortModel struct{}

func (shortModel) Classes() int                       { return 2 }
func (shortModel) Score([]float32) ([]float64, error) { return []float64{0.5}, nil }

func TestTimeline_SoundsAndSummary(t *testing.T) {
	t.Parallel()

	tl := &Timeline{Timeline: []Event{
		{TimeStart: 0, TimeCenter: 0.488, Sound: "Door", Confidence: 0.4},
		{TimeStart: 0, TimeCenter: 0.488, Sound: "Slice", Confidence: 0.3},
		{TimeStart: 0.5, TimeCenter: 0.988, Sound: "Slice", Confidence: 0.6},
		{TimeStart: 1, TimeCenter: 1.488, Sound: "Knock", Confidence: 0.2},
	}}

	if got := tl.Sounds("SLI"); len(got) != 2 || got[1].Confidence != 0.6 {
		t.Errorf("Sounds(SLI) = %+v", got)
	}
	if got := tl.Sounds("glass"); len(got) != 0 {
		t.Errorf("Sounds(glass) = %+v, want none", got)
	}

	want := []SoundSummary{
		{Sound: "Slice", Count: 2, MaxConfidence: 0.6, Centers: []float64{0.488, 0.988}},
		{Sound: "Door", Count: 1, MaxConfidence: 0.4, Centers: []float64{0.488}},
		{Sound: "Knock", Count: 1, MaxConfidence: 0.2, Centers: []float64{1.488}},
	}
	if got := tl.Summary(); !reflect.DeepEqual(got, want) {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func TestTimeline_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	e := engine(t, fixedModel{0.8123456, 0.7}, "Slice", "Door")
	in, err := e.Classify(context.Background(), buffer16k(t, audiotest.Silence(SampleRate, 2)), "clip.wav", Options{Threshold: 0.15})
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Timeline
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, &out) {
		t.Errorf("round trip mismatch\n in: %+v\nout: %+v", in, out)
	}
}

func TestParseTaxonomy(t *testing.T) {
	t.Parallel()

	csv := "index,mid,display_name\n" +
		"0,/m/09x0r,Speech\n" +
		"1,/m/0ytgt,\"Child speech, kid speaking\"\n" +
		"2,/m/07qcpgn,Slice\n"

	tax, err := ParseTaxonomy(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseTaxonomy() error = %v", err)
	}
	if tax.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tax.Len())
	}
	if tax.Name(1) != "Child speech, kid speaking" {
		t.Errorf("Name(1) = %q", tax.Name(1))
	}
	if c := tax.Class(2); c.MID != "/m/07qcpgn" || c.Index != 2 {
		t.Errorf("Class(2) = %+v", c)
	}
}

func TestParseTaxonomy_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
		want error
	}{
		{"empty", "", ErrEmptyTaxonomy},
		{"header only", "index,mid,display_name\n", ErrEmptyTaxonomy},
		{"bad index", "0,/m/a,A\nx,/m/b,B\n", ErrMalformedRow},
		{"out of order", "0,/m/a,A\n2,/m/b,B\n", ErrMalformedRow},
		{"short row", "0,/m/a\n", ErrMalformedRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseTaxonomy(strings.NewReader(tt.csv)); !errors.Is(err, tt.want) {
				t.Errorf("ParseTaxonomy() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLinearModel_Score(t *testing.T) {
	t.Parallel()

	m, err := NewLinearModel(ModelSpec{
		FFT: 512, Hop: 160, Mels: 4,
		Weights: [][]float64{make([]float64, 8), make([]float64, 8)},
		Bias:    []float64{0, 2},
	})
	if err != nil {
		t.Fatal(err)
	}

	scores, err := m.Score(make([]float32, WindowSamples))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.5, 1 / (1 + math.Exp(-2))}
	for i := range want {
		if math.Abs(scores[i]-want[i]) > 1e-12 {
			t.Errorf("scores[%d] = %v, want %v", i, scores[i], want[i])
		}
	}
}

func TestLinearModel_RespondsToEnergy(t *testing.T) {
	t.Parallel()

	// one class reading the mean log energy of every band
	weights := make([]float64, 16)
	for b := range 8 {
		weights[b] = 0.1
	}
	m, err := NewLinearModel(ModelSpec{FFT: 512, Hop: 160, Mels: 8, Weights: [][]float64{weights}, Bias: []float64{0}})
	if err != nil {
		t.Fatal(err)
	}

	quiet := audiotest.Silence(SampleRate, 0.975)
	loud := audiotest.Silence(SampleRate, 0.975)
	audiotest.AddTone(loud, SampleRate, 0, 0.975, 1000, 0.8)

	q, _ := m.Score(quiet)
	l, _ := m.Score(loud)
	if l[0] <= q[0] {
		t.Errorf("loud score %v should exceed quiet score %v", l[0], q[0])
	}
}

func TestNewLinearModel_Shape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec ModelSpec
	}{
		{"no classes", ModelSpec{FFT: 512, Hop: 160, Mels: 2}},
		{"bias mismatch", ModelSpec{FFT: 512, Hop: 160, Mels: 2, Weights: [][]float64{make([]float64, 4)}}},
		{"row width", ModelSpec{FFT: 512, Hop: 160, Mels: 2, Weights: [][]float64{make([]float64, 3)}, Bias: []float64{0}}},
		{"zero fft", ModelSpec{Hop: 160, Mels: 2, Weights: [][]float64{make([]float64, 4)}, Bias: []float64{0}}},
	}

	for _, tt := range tests {
		if _, err := NewLinearModel(tt.spec); !errors.Is(err, ErrModelShape) {
			t.Errorf("%s: error = %v, want ErrModelShape", tt.name, err)
		}
	}
}

func writeModelFiles(t *testing.T, classes int, csvRows string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	spec := ModelSpec{FFT: 512, Hop: 160, Mels: 2, Bias: make([]float64, classes)}
	for range classes {
		spec.Weights = append(spec.Weights, make([]float64, 4))
	}

	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatal(err)
	}

	modelPath := filepath.Join(dir, "model.json")
	mapPath := filepath.Join(dir, "class_map.csv")
	if err := os.WriteFile(modelPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(mapPath, []byte(csvRows), 0o644); err != nil {
		t.Fatal(err)
	}

	return modelPath, mapPath
}

func TestLoad(t *testing.T) {
	t.Parallel()

	modelPath, mapPath := writeModelFiles(t, 2, "index,mid,display_name\n0,/m/a,Slice\n1,/m/b,Door\n")

	e, err := Load(modelPath, mapPath, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if e.Taxonomy().Len() != 2 {
		t.Errorf("Taxonomy().Len() = %d, want 2", e.Taxonomy().Len())
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	modelPath, mapPath := writeModelFiles(t, 2, "0,/m/a,Slice\n")
	_, goodMap := writeModelFiles(t, 2, "0,/m/a,Slice\n1,/m/b,Door\n")
	missing := filepath.Join(t.TempDir(), "missing")

	tests := []struct {
		name         string
		model, class string
		cause        error
	}{
		{"missing model", missing, goodMap, os.ErrNotExist},
		{"missing class map", modelPath, missing, os.ErrNotExist},
		{"class count mismatch", modelPath, mapPath, ErrClassMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(tt.model, tt.class, nil)
			if !errors.Is(err, errs.ErrInput) {
				t.Errorf("Load() error = %v, want InputError", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("Load() error = %v, want cause %v", err, tt.cause)
			}
		})
	}
}

func BenchmarkClassify(b *testing.B) {
	x := audiotest.Silence(SampleRate, 10)
	audiotest.AddTone(x, SampleRate, 0, 10, 440, 0.5)
	buf, _ := audio.NewBuffer(x, SampleRate)

	model, _ := NewLinearModel(ModelSpec{
		FFT: 512, Hop: 160, Mels: 64,
		Weights: [][]float64{make([]float64, 128)},
		Bias:    []float64{0},
	})
	e, _ := NewEngine(NewTaxonomy("tone"), model, nil)

	b.ResetTimer()
	for b.Loop() {
		_, _ = e.Classify(context.Background(), buf, "", Options{Threshold: 0.5, Workers: 4})
	}
}
