// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/internal/logger"
	"github.com/ik5/hapsync/preview"
	"github.com/ik5/hapsync/watch"
)

func runWatch(ctx context.Context, e *env, args []string) error {
	var a analysis

	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.StringVar(&a.mode, "mode", modePrecise, "full|precise|classify")
	a.hapticFlags(fs)
	a.classifyFlags(fs)
	dir := fs.String("dir", ".", "directory to watch")
	listen := fs.String("listen", "", "serve live previews on this address, e.g. :8765 (path /ws)")
	outDir := fs.String("out-dir", "", "write one JSON timeline per file into this directory")
	debounce := fs.Duration("debounce", watch.DefaultDebounce, "quiet period before a changed file is analyzed")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: hapsync watch [flags]")
		fs.PrintDefaults()
	}

	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return errUsage
	}
	if err := a.checkMode(modeFull, modePrecise, modeClassify); err != nil {
		return err
	}
	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return errs.Input("hapsync watch", "cannot create output directory", err)
		}
	}

	p, err := a.pipeline(e)
	if err != nil {
		return err
	}

	hub := preview.NewHub(e.log)
	defer hub.Close()

	if *listen != "" {
		stop, err := serve(ctx, e.log, *listen, hub)
		if err != nil {
			return err
		}
		defer stop()
	}

	handle := func(ctx context.Context, path string) error {
		r, err := a.analyze(ctx, p, path)
		if err != nil {
			fmt.Fprintf(e.stdout, "FAIL  %s: %v\n", path, err)
			return err
		}
		if *outDir != "" {
			if err := writeJSON(outputPath(*outDir, path, a.mode), r.value); err != nil {
				return err
			}
		}
		if _, err := hub.Broadcast(r.kind, path, r.value); err != nil {
			return err
		}

		fmt.Fprintf(e.stdout, "ok    %s: %d %s\n", path, r.count, r.unit)
		return nil
	}

	w, err := watch.New(*dir, handle,
		watch.WithFilter(p.Supported),
		watch.WithDebounce(*debounce),
		watch.WithLogger(e.log),
	)
	if err != nil {
		return errs.Input("hapsync watch", "cannot watch directory", err)
	}

	return w.Run(ctx)
}

// serve runs the preview websocket endpoint until ctx is done or stop is
// called.
func serve(ctx context.Context, log *logger.Logger, addr string, hub *preview.Hub) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errs.Input("hapsync watch", "cannot listen", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("preview server stopped", zap.Error(err))
		}
	}()
	log.Info("serving previews", zap.String("addr", ln.Addr().String()))

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}

	return stop, nil
}
