// SPDX-License-Identifier: EPL-2.0

package classify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ik5/hapsync/audio"
	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/utils"
)

const (
	SampleRate     = 16000
	WindowSamples  = 15600
	HopSamples     = 8000
	WindowDuration = 0.975
	HopDuration    = 0.5
)

// Options tunes one Classify call.
type Options struct {
	// Threshold is the minimum score reported, in [0,1].
	Threshold float64
	// Sounds restricts events to labels containing one of these terms,
	// ignoring case. Empty keeps every label.
	Sounds []string
	// Workers scores windows concurrently when above one.
	Workers int
	// PadTrailing zero-pads and scores the partial window at the end,
	// which is otherwise skipped.
	PadTrailing bool
}

func (o Options) Validate() error {
	const op = "classify.Options"

	if err := errs.Unit(op, "threshold", o.Threshold); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errs.Parameter(op, "workers", o.Workers, "must not be negative")
	}

	return nil
}

// windowStarts lists the first sample of every window over n samples.
func windowStarts(n int, padTrailing bool) []int {
	var starts []int
	next := 0
	for ; next+WindowSamples <= n; next += HopSamples {
		starts = append(starts, next)
	}

	if padTrailing && next < n {
		starts = append(starts, next)
	}

	return starts
}

// allowList lower-cases the non-empty terms. Terms are matched as given;
// callers trim them.
func allowList(sounds []string) []string {
	var terms []string
	for _, s := range sounds {
		if s = strings.ToLower(s); s != "" {
			terms = append(terms, s)
		}
	}

	return terms
}

func allowed(terms []string, label string) bool {
	if len(terms) == 0 {
		return true
	}

	label = strings.ToLower(label)
	for _, t := range terms {
		if strings.Contains(label, t) {
			return true
		}
	}

	return false
}

// Classify runs the sliding window over buf, which must be 16 kHz mono.
// Either the whole timeline is returned or an error, never a partial one.
func (e *Engine) Classify(ctx context.Context, buf *audio.Buffer, name string, opts Options) (*Timeline, error) {
	const op = "classify.Classify"

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, errs.Input(op, "no audio buffer", nil)
	}
	if buf.SampleRate() != SampleRate {
		return nil, errs.Parameter(op, "sample_rate", buf.SampleRate(), "classifier needs 16 kHz audio")
	}

	starts := windowStarts(buf.Len(), opts.PadTrailing)
	if len(starts) == 0 {
		e.log.Warn("degenerate input",
			zap.String("file", name),
			zap.Error(errs.Degenerate(op, "audio shorter than one window")))
	}

	terms := allowList(opts.Sounds)
	perWindow := make([][]Event, len(starts))

	score := func(i int, window []float32) error {
		buf.Window(window, starts[i])

		scores, err := e.model.Score(window)
		if err != nil {
			return fmt.Errorf("window at %d: %w", starts[i], err)
		}
		if len(scores) != e.taxonomy.Len() {
			return fmt.Errorf("%w: got %d, want %d", ErrScoreDimensions, len(scores), e.taxonomy.Len())
		}

		perWindow[i] = e.events(starts[i], scores, opts.Threshold, terms)
		return nil
	}

	if err := run(ctx, len(starts), opts.Workers, score); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(starts))
	for _, evs := range perWindow {
		events = append(events, evs...)
	}
	sortEvents(events)

	e.log.Debug("classified",
		zap.String("file", name),
		zap.Int("windows", len(starts)),
		zap.Int("events", len(events)))

	return &Timeline{
		File:          name,
		Duration:      utils.Round(buf.Duration(), 3),
		SampleRate:    SampleRate,
		ChunkDuration: WindowDuration,
		HopDuration:   HopDuration,
		Threshold:     opts.Threshold,
		TotalEvents:   len(events),
		Timeline:      events,
	}, nil
}

func (e *Engine) events(start int, scores []float64, threshold float64, terms []string) []Event {
	t := float64(start) / SampleRate

	var out []Event
	for id, p := range scores {
		if p < threshold {
			continue
		}

		label := e.taxonomy.Name(id)
		if !allowed(terms, label) {
			continue
		}

		out = append(out, Event{
			TimeStart:  utils.Round(t, 3),
			TimeEnd:    utils.Round(t+WindowDuration, 3),
			TimeCenter: utils.Round(t+WindowDuration/2, 3),
			Sound:      label,
			Confidence: utils.Round(p, 4),
			ClassID:    id,
		})
	}

	return out
}

// run calls fn for every index in [0,n), on up to workers goroutines. Each
// goroutine owns one window buffer. The first error cancels the rest.
func run(ctx context.Context, n, workers int, fn func(i int, window []float32) error) error {
	if workers <= 1 {
		window := make([]float32, WindowSamples)
		for i := range n {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i, window); err != nil {
				return err
			}
		}

		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for range min(workers, max(n, 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			window := make([]float32, WindowSamples)
			for i := range jobs {
				if err := fn(i, window); err != nil {
					fail(err)
				}
			}
		}()
	}

feed:
	for i := range n {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	return ctx.Err()
}
