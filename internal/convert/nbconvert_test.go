// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nbexport/pkg/types"
)

// fakeRuntime implements container.Runtime without running anything.
type fakeRuntime struct {
	imageErr error
	output   string
	runErr   error

	gotImage string
	gotArgs  []string
	gotStdin string
}

func (f *fakeRuntime) Name() string { return "docker" }
func (f *fakeRuntime) Available() bool { return true }
func (f *fakeRuntime) ImageExists(string) error { return f.imageErr }

func (f *fakeRuntime) Run(_ context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.gotImage, f.gotArgs = image, args
	data, _ := io.ReadAll(stdin)
	f.gotStdin = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestNewNbconvertExporter(t *testing.T) {
	_, err := NewNbconvertExporter(&fakeRuntime{imageErr: errors.New("no such image")}, "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nbconvert image not available in docker")

	e, err := NewNbconvertExporter(&fakeRuntime{}, "", false)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultNbconvertImage, e.image)
}

func TestNbconvertExporter_FromFilename(t *testing.T) {
	dir := t.TempDir()
	in := writeNotebook(t, dir, "Introduction.ipynb", validNotebook)

	rt := &fakeRuntime{output: "<html>rendered</html>"}
	e, err := NewNbconvertExporter(rt, "jupyter/custom:1", true)
	require.NoError(t, err)

	out, res, err := e.FromFilename(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "<html>rendered</html>", out)
	assert.Equal(t, "Introduction", res.Name)
	assert.Equal(t, "jupyter/custom:1", rt.gotImage)
	assert.Equal(t, validNotebook, rt.gotStdin)
	assert.Contains(t, rt.gotArgs, "--stdout")
	assert.Contains(t, rt.gotArgs, "--no-input")
}

func TestNbconvertExporter_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeNotebook(t, dir, "a.ipynb", validNotebook)

	tests := []struct {
		name    string
		rt      *fakeRuntime
		path    string
		wantErr string
	}{
		{name: "missing file", rt: &fakeRuntime{}, path: filepath.Join(dir, "missing.ipynb"), wantErr: "opening notebook"},
		{name: "container failure", rt: &fakeRuntime{runErr: errors.New("exit status 1")}, path: in, wantErr: "exit status 1"},
		{name: "empty output", rt: &fakeRuntime{}, path: in, wantErr: "empty output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewNbconvertExporter(tt.rt, "", false)
			require.NoError(t, err)
			_, _, err = e.FromFilename(context.Background(), tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
