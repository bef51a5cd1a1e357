// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/export"
)

func runHaptic(_ context.Context, e *env, args []string) error {
	var a analysis

	fs := flag.NewFlagSet("haptic", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.StringVar(&a.mode, "mode", modeFull, "full (second by second) or precise (per onset)")
	a.hapticFlags(fs)
	format := fs.String("format", string(export.FormatVisual), "output format: "+formatList())
	output := fs.String("output", "", "also save the JSON timeline to this file")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: hapsync haptic [flags] file")
		fs.PrintDefaults()
	}

	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	if err := a.checkMode(modeFull, modePrecise); err != nil {
		return err
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		return errs.Parameter("hapsync haptic", "format", *format, err.Error())
	}

	p, err := a.pipeline(e)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	if a.mode == modeFull {
		tl, err := p.Full(path)
		if err != nil {
			return err
		}
		if err := export.WriteFull(e.stdout, tl, f); err != nil {
			return err
		}
		return save(e, *output, tl)
	}

	tl, err := p.Precise(path, a.sensitivity, a.minGap)
	if err != nil {
		return err
	}
	if err := export.WritePrecise(e.stdout, tl, f); err != nil {
		return err
	}

	return save(e, *output, tl)
}

func formatList() string {
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}

	return strings.Join(names, "|")
}

