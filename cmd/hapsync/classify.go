// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ik5/hapsync/export"
)

func runClassify(ctx context.Context, e *env, args []string) error {
	a := analysis{mode: modeClassify}

	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	a.classifyFlags(fs)
	asJSON := fs.Bool("json", false, "print the timeline as JSON")
	showAll := fs.Bool("all", false, "show every label, not only the first per window")
	output := fs.String("output", "", "also save the JSON timeline to this file")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: hapsync classify [flags] file")
		fs.PrintDefaults()
	}

	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	p, err := a.pipeline(e)
	if err != nil {
		return err
	}

	tl, err := p.Classify(ctx, fs.Arg(0), a.classifyOptions())
	if err != nil {
		return err
	}

	if *asJSON {
		err = export.JSON(e.stdout, tl)
	} else {
		err = export.PrintClassification(e.stdout, tl, *showAll)
	}
	if err != nil {
		return err
	}

	return save(e, *output, tl)
}
