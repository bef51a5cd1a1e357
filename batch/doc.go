// SPDX-License-Identifier: EPL-2.0

// Package batch runs one analysis per file on a bounded worker pool.
//
// Every file becomes a Job with its own UUID. Results come back on a
// channel in completion order, and Collect folds the failures into a single
// error:
//
//	pool := batch.NewPool(4, func(ctx context.Context, j batch.Job) (*haptic.FullTimeline, error) {
//		buf, err := formats.Load(reg, j.Path, analyzer.Config().SampleRate)
//		if err != nil {
//			return nil, err
//		}
//		return analyzer.Full(buf, filepath.Base(j.Path))
//	}, log)
//
//	results, err := batch.Collect(pool.Run(ctx, batch.NewJobs(paths...)))
package batch
