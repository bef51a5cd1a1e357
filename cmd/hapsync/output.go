// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ik5/hapsync/errs"
	"github.com/ik5/hapsync/export"
)

// save writes v as indented JSON to path. An empty path is a no-op.
func save(e *env, path string, v any) error {
	if path == "" {
		return nil
	}
	if err := writeJSON(path, v); err != nil {
		return err
	}

	e.log.Info("saved timeline", zap.String("output", path))
	fmt.Fprintf(e.stderr, "saved to %s\n", path)

	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Input("hapsync save", "cannot create output", err)
	}

	if err := export.JSON(f, v); err != nil {
		_ = f.Close()
		return errs.Input("hapsync save", "cannot write output", err)
	}
	if err := f.Close(); err != nil {
		return errs.Input("hapsync save", "cannot write output", err)
	}

	return nil
}

// outputPath names the JSON file for input inside dir, e.g.
// dir/clip.precise.json.
func outputPath(dir, input, mode string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+"."+mode+".json")
}
