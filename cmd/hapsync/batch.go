// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/hapsync/batch"
	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/internal/logger"
)

func runBatch(ctx context.Context, e *env, args []string) error {
	var a analysis

	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.StringVar(&a.mode, "mode", modeFull, "full|precise|classify")
	a.hapticFlags(fs)
	a.classifyFlags(fs)
	workers := fs.Int("jobs", runtime.NumCPU(), "files analyzed concurrently")
	outDir := fs.String("out-dir", "", "write one JSON timeline per file into this directory")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: hapsync batch [flags] files...")
		fs.PrintDefaults()
	}

	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	if err := a.checkMode(modeFull, modePrecise, modeClassify); err != nil {
		return err
	}
	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return errs.Input("hapsync batch", "cannot create output directory", err)
		}
	}

	p, err := a.pipeline(e)
	if err != nil {
		return err
	}

	pool := batch.NewPool(*workers, func(ctx context.Context, j batch.Job) (result, error) {
		r, err := a.analyze(ctx, p, j.Path)
		if err != nil {
			return result{}, err
		}
		if *outDir != "" {
			out := outputPath(*outDir, j.Path, a.mode)
			if err := writeJSON(out, r.value); err != nil {
				return result{}, err
			}
			logger.FromContext(ctx).Info("saved timeline", zap.String("output", out))
		}
		return r, nil
	}, e.log)

	results, err := batch.Collect(pool.Run(ctx, batch.NewJobs(fs.Args()...)))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(e.stdout, "FAIL  %s: %v\n", r.Job.Path, r.Err)
			continue
		}
		fmt.Fprintf(e.stdout, "ok    %s: %d %s in %s\n", r.Job.Path, r.Value.count, r.Value.unit, r.Elapsed.Round(time.Millisecond))
	}
	if err != nil {
		e.log.Warn("batch finished with failures", zap.Int("files", len(results)))
	}

	return err
}
