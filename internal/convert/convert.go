// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns notebook files into HTML files written next to them.
// The rendering itself is delegated to an Exporter; this package owns output
// path derivation, writing, confirmation, and ordered batch runs.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/nbexport/pkg/types"
)

const (
	notebookExt = ".ipynb"
	htmlExt     = ".html"
)

// Exporter renders a notebook file to HTML. Backends (the native renderer,
// nbconvert in a container) implement this interface.
type Exporter interface {
	// FromFilename loads the notebook at path and returns the rendered HTML
	// plus secondary resources the caller may ignore.
	FromFilename(ctx context.Context, path string) (string, types.Resources, error)
}

// Recorder receives the outcome of every conversion attempt.
type Recorder interface {
	Record(ctx context.Context, c types.Conversion) error
}

// OutputPath derives the HTML path for a notebook by replacing the first
// occurrence of ".ipynb" with ".html". A path without ".ipynb" is returned
// unchanged.
func OutputPath(notebookPath string) string {
	return strings.Replace(notebookPath, notebookExt, htmlExt, 1)
}

// ConvertNotebook exports the notebook at path, writes the HTML to its output
// path (created or truncated), and prints a confirmation line to w. It
// returns the output path. Exporter and filesystem errors are returned
// wrapped, with nothing removed on failure.
func ConvertNotebook(ctx context.Context, e Exporter, path string, w io.Writer) (string, error) {
	out := OutputPath(path)
	if out == path {
		return "", fmt.Errorf("converting %s: path does not contain %q; refusing to overwrite the source", path, notebookExt)
	}

	body, res, err := e.FromFilename(ctx, path)
	if err != nil {
		return "", fmt.Errorf("exporting %s: %w", path, err)
	}
	slog.Debug("exported notebook", "path", path, "title", res.Title, "cells", res.Cells, "outputs", res.Outputs)

	if err := os.WriteFile(out, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Fprintf(w, "Conversion successful. HTML file saved as %s\n", out)
	return out, nil
}

// Plan is an ordered set of notebooks to convert: every entry of Notebooks
// in order, then Index when it is set.
type Plan struct {
	Notebooks []string
	Index     string
}

// Paths returns the plan's notebook paths in conversion order.
func (p Plan) Paths() []string {
	paths := make([]string, 0, len(p.Notebooks)+1)
	paths = append(paths, p.Notebooks...)
	if p.Index != "" {
		paths = append(paths, p.Index)
	}
	return paths
}

// PlanFromConfig builds a Plan from the configured notebook list and index.
func PlanFromConfig(cfg types.ExportConfig) Plan {
	return Plan{Notebooks: cfg.Notebooks, Index: cfg.Index}
}

// Options controls a plan run.
type Options struct {
	// ContinueOnError converts the remaining notebooks after a failure and
	// reports every failure at the end. The default stops at the first one.
	ContinueOnError bool

	// Recorder, when set, is told about every attempt.
	Recorder Recorder
}

// BatchResult holds the outcome of a plan run.
type BatchResult struct {
	Converted int
	Failed    int
	// Outputs lists written HTML paths in the order they were written.
	Outputs []string
}

// Total returns the number of notebooks attempted.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any notebook failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// RunPlan converts every notebook in plan, one at a time, in order. By
// default the first failure stops the run and is returned; notebooks after
// it are never attempted and already-written files are left in place.
func RunPlan(ctx context.Context, e Exporter, plan Plan, opts Options, w io.Writer) (BatchResult, error) {
	var result BatchResult
	var errs []error

	for _, path := range plan.Paths() {
		if err := ctx.Err(); err != nil {
			return result, errors.Join(append(errs, err)...)
		}

		out, err := ConvertNotebook(ctx, e, path, w)
		record(ctx, opts.Recorder, path, out, err)

		if err != nil {
			result.Failed++
			if !opts.ContinueOnError {
				return result, err
			}
			slog.Warn("conversion failed, continuing", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		result.Converted++
		result.Outputs = append(result.Outputs, out)
	}

	return result, errors.Join(errs...)
}

func record(ctx context.Context, r Recorder, path, out string, convErr error) {
	if r == nil {
		return
	}
	c := types.Conversion{
		Notebook:    path,
		Output:      OutputPath(path),
		Status:      types.ConversionDone,
		ConvertedAt: time.Now().UTC(),
	}
	if convErr != nil {
		c.Status = types.ConversionFailed
		c.Error = convErr.Error()
	} else if info, err := os.Stat(out); err == nil {
		c.Bytes = int(info.Size())
	}
	if err := r.Record(ctx, c); err != nil {
		slog.Warn("recording conversion", "path", path, "error", err)
	}
}
