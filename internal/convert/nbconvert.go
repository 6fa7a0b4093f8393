// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/nbexport/internal/container"
	"github.com/pdiddy/nbexport/pkg/types"
)

// nbconvertArgs runs the stock HTML exporter, reading the notebook on stdin
// and writing the page to stdout.
var nbconvertArgs = []string{"jupyter", "nbconvert", "--to", "html", "--stdin", "--stdout", "--log-level", "ERROR"}

// NbconvertExporter renders notebooks by piping them through jupyter
// nbconvert inside a container. It depends on a container.Runtime (docker or
// podman) injected at construction time.
type NbconvertExporter struct {
	runtime container.Runtime
	image   string
	extra   []string
}

// NewNbconvertExporter creates an exporter that runs image with the given
// runtime. It verifies that the image exists locally before returning.
// excludeInput adds nbconvert's --no-input flag.
func NewNbconvertExporter(rt container.Runtime, image string, excludeInput bool) (*NbconvertExporter, error) {
	if image == "" {
		image = types.DefaultNbconvertImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("nbconvert image not available in %s: %w", rt.Name(), err)
	}
	e := &NbconvertExporter{runtime: rt, image: image}
	if excludeInput {
		e.extra = []string{"--no-input"}
	}
	return e, nil
}

// FromFilename pipes the notebook at path through nbconvert and returns the
// resulting HTML.
func (n *NbconvertExporter) FromFilename(ctx context.Context, path string) (string, types.Resources, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", types.Resources{}, fmt.Errorf("opening notebook %s: %w", path, err)
	}
	defer f.Close()

	args := append(append([]string{}, nbconvertArgs...), n.extra...)

	var out bytes.Buffer
	if err := n.runtime.Run(ctx, n.image, args, f, &out); err != nil {
		return "", types.Resources{}, fmt.Errorf("converting %s with nbconvert: %w", path, err)
	}
	if out.Len() == 0 {
		return "", types.Resources{}, fmt.Errorf("nbconvert produced empty output for %s", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return out.String(), types.Resources{Name: name, Title: name, OutputExtension: htmlExt}, nil
}
