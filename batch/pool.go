// SPDX-License-Identifier: EPL-2.0

package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ik5/hapsync/internal/logger"
)

// DefaultWorkers is used when a pool is built with a non-positive count.
const DefaultWorkers = 4

// Job is one file to analyze.
type Job struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// NewJobs assigns a fresh ID to every path.
func NewJobs(paths ...string) []Job {
	jobs := make([]Job, len(paths))
	for i, p := range paths {
		jobs[i] = Job{ID: uuid.NewString(), Path: p}
	}

	return jobs
}

// Result is the outcome of one Job. Exactly one of Value and Err is set.
type Result[T any] struct {
	Job     Job
	Value   T
	Err     error
	Elapsed time.Duration
}

// Processor analyzes a single job.
type Processor[T any] func(ctx context.Context, job Job) (T, error)

// Pool runs a Processor over many jobs with at most workers in flight.
type Pool[T any] struct {
	process Processor[T]
	workers int
	log     *logger.Logger
}

func NewPool[T any](workers int, process Processor[T], log *logger.Logger) *Pool[T] {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Pool[T]{
		process: process,
		workers: workers,
		log:     log,
	}
}

func (p *Pool[T]) Workers() int { return p.workers }

// Run processes jobs concurrently and sends every result to the returned
// channel, which is closed once all jobs are accounted for. Jobs not yet
// started when ctx is cancelled are reported with ctx.Err().
func (p *Pool[T]) Run(ctx context.Context, jobs []Job) <-chan Result[T] {
	results := make(chan Result[T], len(jobs))

	go func() {
		defer close(results)

		var wg sync.WaitGroup
		semaphore := make(chan struct{}, p.workers)

		for _, job := range jobs {
			if ctx.Err() != nil {
				results <- Result[T]{Job: job, Err: ctx.Err()}
				continue
			}

			select {
			case <-ctx.Done():
				results <- Result[T]{Job: job, Err: ctx.Err()}
				continue
			case semaphore <- struct{}{}:
			}

			wg.Add(1)
			go func(j Job) {
				defer wg.Done()
				defer func() { <-semaphore }()

				results <- p.runJob(ctx, j)
			}(job)
		}

		wg.Wait()
	}()

	return results
}

func (p *Pool[T]) runJob(ctx context.Context, job Job) (res Result[T]) {
	log := p.log.With(zap.String("job_id", job.ID), zap.String("input", job.Path))
	start := time.Now()
	res.Job = job

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("job %s: %w: %v", job.ID, ErrPanicked, r)
			log.Error("batch job panicked", zap.Any("panic", r))
		}
		res.Elapsed = time.Since(start)
	}()

	if p.process == nil {
		res.Err = ErrNoProcessor
		return res
	}

	log.Info("processing batch job")

	v, err := p.process(logger.WithContext(ctx, log), job)
	if err != nil {
		log.Error("batch job failed", zap.Error(err))
		res.Err = fmt.Errorf("job %s (%s) failed: %w", job.ID, job.Path, err)
		return res
	}
	res.Value = v

	log.Debug("batch job done", zap.Duration("elapsed", time.Since(start)))

	return res
}

// Collect drains results. Every result is returned, failed ones included;
// the error combines all failures.
func Collect[T any](results <-chan Result[T]) ([]Result[T], error) {
	var (
		out []Result[T]
		err error
	)
	for r := range results {
		out = append(out, r)
		err = multierr.Append(err, r.Err)
	}

	return out, err
}
