// SPDX-License-Identifier: EPL-2.0

// Command hapsync turns audio files into haptic and sound-label timelines.
//
//	hapsync [-v] haptic   [flags] file
//	hapsync [-v] classify [flags] file
//	hapsync [-v] batch    [flags] files...
//	hapsync [-v] watch    [flags]
//
// Timelines go to stdout; logs go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/internal/logger"
)

// Exit codes.
const (
	exitOK        = 0
	exitInput     = 1
	exitParameter = 2
)

var errUsage = errors.New("usage")

// env is what every subcommand gets.
type env struct {
	stdout io.Writer
	stderr io.Writer
	log    *logger.Logger
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{"haptic", "per-second or per-onset haptic timeline of one file", runHaptic},
	{"classify", "sound labels over time for one file", runClassify},
	{"batch", "analyze many files concurrently", runBatch},
	{"watch", "re-analyze audio files as they change in a directory", runWatch},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hapsync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "debug logging in human readable form")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitParameter
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitParameter
	}

	log, err := logger.New(*verbose)
	if err != nil {
		fmt.Fprintf(stderr, "hapsync: %v\n", err)
		return exitInput
	}
	defer func() { _ = log.Sync() }()

	e := &env{stdout: stdout, stderr: stderr, log: log}

	name := fs.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}

		err := c.run(ctx, e, fs.Args()[1:])
		code := exitCode(err)
		if code != exitOK && !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			log.Error("command failed", zap.String("command", name), zap.Error(err))
			fmt.Fprintf(stderr, "hapsync %s: %v\n", name, err)
		}

		return code
	}

	fmt.Fprintf(stderr, "hapsync: unknown command %q\n", name)
	fs.Usage()

	return exitParameter
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "usage: hapsync [-v] <command> [flags] [args]")
	fmt.Fprintln(w, "\ncommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}

func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		return exitParameter
	}

	switch errs.KindOf(err) {
	case errs.KindParameter:
		return exitParameter
	default:
		return exitInput
	}
}

// parse parses a subcommand's flags, reporting bad flags as usage errors.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	return nil
}
