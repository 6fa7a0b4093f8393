// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nbexport/internal/export"
	"github.com/pdiddy/nbexport/internal/notebook"
	"github.com/pdiddy/nbexport/pkg/types"
)

// fakeExporter implements Exporter for testing. It returns canned HTML or an
// error, depending on configuration, and remembers the paths it was asked for.
type fakeExporter struct {
	output string
	err    error
	calls  []string
}

func (f *fakeExporter) FromFilename(_ context.Context, path string) (string, types.Resources, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return "", types.Resources{}, f.err
	}
	return f.output, types.Resources{Name: "ignored"}, nil
}

// fakeRecorder collects recorded conversions.
type fakeRecorder struct {
	got []types.Conversion
}

func (r *fakeRecorder) Record(_ context.Context, c types.Conversion) error {
	r.got = append(r.got, c)
	return nil
}

const validNotebook = `{"nbformat": 4, "nbformat_minor": 5, "metadata": {},
 "cells": [{"cell_type": "markdown", "metadata": {}, "source": "# Hidden Markov Models"}]}`

// writeNotebook creates dir/name with content and returns its path.
func writeNotebook(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a.ipynb", "a.html"},
		{"/home/lab/hidden-markov-model/Introduction.ipynb", "/home/lab/hidden-markov-model/Introduction.html"},
		{"docs/intro.ipynb", "docs/intro.html"},
		{"nb.ipynb.ipynb", "nb.html.ipynb"},
		{"notes.txt", "notes.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.in))
		})
	}
}

func TestConvertNotebook(t *testing.T) {
	dir := t.TempDir()
	in := writeNotebook(t, dir, "a.ipynb", validNotebook)

	var log bytes.Buffer
	out, err := ConvertNotebook(context.Background(), export.NewHTMLExporter(export.Options{}), in, &log)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "a.html"), out)
	assert.Equal(t, "Conversion successful. HTML file saved as "+out+"\n", log.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, string(data), "<h1>Hidden Markov Models</h1>")
}

func TestConvertNotebook_Overwrites(t *testing.T) {
	dir := t.TempDir()
	in := writeNotebook(t, dir, "a.ipynb", validNotebook)
	out := filepath.Join(dir, "a.html")
	require.NoError(t, os.WriteFile(out, []byte("stale content that is longer than the new page"), 0o644))

	exp := &fakeExporter{output: "<p>fresh</p>"}
	for i := 0; i < 2; i++ {
		got, err := ConvertNotebook(context.Background(), exp, in, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, out, got)
	}

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<p>fresh</p>", string(data))
}

func TestConvertNotebook_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, dir string) string
		exporter Exporter
		check    func(t *testing.T, err error)
	}{
		{
			name:     "input not found",
			setup:    func(t *testing.T, dir string) string { return filepath.Join(dir, "x.ipynb") },
			exporter: export.NewHTMLExporter(export.Options{}),
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, os.ErrNotExist))
			},
		},
		{
			name: "malformed notebook",
			setup: func(t *testing.T, dir string) string {
				return writeNotebook(t, dir, "y.ipynb", `{"cells": "nope"}`)
			},
			exporter: export.NewHTMLExporter(export.Options{}),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, notebook.ErrMalformed)
			},
		},
		{
			name: "output directory missing",
			setup: func(t *testing.T, dir string) string {
				return filepath.Join(dir, "gone", "z.ipynb")
			},
			exporter: &fakeExporter{output: "<p>ok</p>"},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "writing")
				assert.True(t, errors.Is(err, os.ErrNotExist))
			},
		},
		{
			name: "exporter error propagates",
			setup: func(t *testing.T, dir string) string {
				return writeNotebook(t, dir, "e.ipynb", validNotebook)
			},
			exporter: &fakeExporter{err: errors.New("kernel exploded")},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "kernel exploded")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := tt.setup(t, dir)

			var log bytes.Buffer
			_, err := ConvertNotebook(context.Background(), tt.exporter, in, &log)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, log.String(), "no confirmation on failure")
			assert.False(t, exists(OutputPath(in)))
		})
	}
}

func TestConvertNotebook_RefusesPathWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	in := writeNotebook(t, dir, "notes.json", validNotebook)
	exp := &fakeExporter{output: "<p>x</p>"}

	_, err := ConvertNotebook(context.Background(), exp, in, &bytes.Buffer{})
	require.Error(t, err)
	assert.Empty(t, exp.calls, "exporter should not run")

	data, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, validNotebook, string(data), "source must be untouched")
}

func TestPlanPaths(t *testing.T) {
	p := Plan{Notebooks: []string{"x.ipynb", "y.ipynb"}, Index: "z.ipynb"}
	assert.Equal(t, []string{"x.ipynb", "y.ipynb", "z.ipynb"}, p.Paths())

	assert.Equal(t, []string{"x.ipynb"}, Plan{Notebooks: []string{"x.ipynb"}}.Paths())
	assert.Empty(t, Plan{}.Paths())

	cfg := types.ExportConfig{Notebooks: []string{"a.ipynb"}, Index: "docs/intro.ipynb"}
	assert.Equal(t, []string{"a.ipynb", "docs/intro.ipynb"}, PlanFromConfig(cfg).Paths())
}

func TestRunPlan_Order(t *testing.T) {
	dir := t.TempDir()
	x := writeNotebook(t, dir, "x.ipynb", validNotebook)
	y := writeNotebook(t, dir, "y.ipynb", validNotebook)
	z := writeNotebook(t, dir, "z.ipynb", validNotebook)

	var log bytes.Buffer
	result, err := RunPlan(context.Background(), export.NewHTMLExporter(export.Options{}),
		Plan{Notebooks: []string{x, y}, Index: z}, Options{}, &log)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "x.html"),
		filepath.Join(dir, "y.html"),
		filepath.Join(dir, "z.html"),
	}
	assert.Equal(t, want, result.Outputs)
	assert.Equal(t, 3, result.Converted)
	assert.False(t, result.HasFailures())
	assert.Equal(t, 3, result.Total())

	lines := strings.Split(strings.TrimSpace(log.String()), "\n")
	require.Len(t, lines, 3)
	for i, line := range lines {
		assert.True(t, strings.HasSuffix(line, want[i]), "line %d = %q", i, line)
	}
}

func TestRunPlan_MissingInputHaltsRun(t *testing.T) {
	dir := t.TempDir()
	x := filepath.Join(dir, "x.ipynb")
	y := writeNotebook(t, dir, "y.ipynb", validNotebook)

	result, err := RunPlan(context.Background(), export.NewHTMLExporter(export.Options{}),
		Plan{Notebooks: []string{x, y}}, Options{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.Equal(t, 0, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, exists(filepath.Join(dir, "y.html")), "y must never be attempted")
}

func TestRunPlan_MalformedStopsLaterItems(t *testing.T) {
	dir := t.TempDir()
	x := writeNotebook(t, dir, "x.ipynb", validNotebook)
	y := writeNotebook(t, dir, "y.ipynb", `not json at all`)
	w := writeNotebook(t, dir, "w.ipynb", validNotebook)
	idx := writeNotebook(t, dir, "intro.ipynb", validNotebook)

	result, err := RunPlan(context.Background(), export.NewHTMLExporter(export.Options{}),
		Plan{Notebooks: []string{x, y, w}, Index: idx}, Options{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, notebook.ErrMalformed)

	assert.Equal(t, []string{filepath.Join(dir, "x.html")}, result.Outputs)
	assert.True(t, exists(filepath.Join(dir, "x.html")), "earlier output stays in place")
	assert.False(t, exists(filepath.Join(dir, "y.html")))
	assert.False(t, exists(filepath.Join(dir, "w.html")))
	assert.False(t, exists(filepath.Join(dir, "intro.html")))
}

func TestRunPlan_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	x := filepath.Join(dir, "x.ipynb")
	y := writeNotebook(t, dir, "y.ipynb", `{"nbformat": 3, "cells": []}`)
	z := writeNotebook(t, dir, "z.ipynb", validNotebook)

	rec := &fakeRecorder{}
	result, err := RunPlan(context.Background(), export.NewHTMLExporter(export.Options{}),
		Plan{Notebooks: []string{x, y}, Index: z}, Options{ContinueOnError: true, Recorder: rec}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.ErrorIs(t, err, notebook.ErrMalformed)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 2, result.Failed)
	assert.True(t, result.HasFailures())
	assert.True(t, exists(filepath.Join(dir, "z.html")))

	require.Len(t, rec.got, 3)
	assert.Equal(t, types.ConversionFailed, rec.got[0].Status)
	assert.Equal(t, types.ConversionFailed, rec.got[1].Status)
	assert.NotEmpty(t, rec.got[1].Error)
	assert.Equal(t, types.ConversionDone, rec.got[2].Status)
	assert.Equal(t, filepath.Join(dir, "z.html"), rec.got[2].Output)
	assert.Positive(t, rec.got[2].Bytes)
}

func TestRunPlan_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := &fakeExporter{output: "<p>x</p>"}
	result, err := RunPlan(ctx, exp, Plan{Notebooks: []string{"a.ipynb", "b.ipynb"}}, Options{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Total())
	assert.Empty(t, exp.calls)
}
