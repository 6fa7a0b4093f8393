// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook loads nbformat v4 notebook documents from disk.
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/nbexport/pkg/types"
)

// SupportedFormat is the only nbformat major version the loader accepts.
const SupportedFormat = 4

// ErrMalformed reports a document that is not a well-formed v4 notebook.
var ErrMalformed = errors.New("malformed notebook")

// Load reads and parses the notebook at path. A missing file keeps
// os.ErrNotExist in the error chain; structural problems wrap ErrMalformed.
func Load(path string) (*types.Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening notebook %s: %w", path, err)
	}
	defer f.Close()

	nb, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing notebook %s: %w", path, err)
	}
	return nb, nil
}

// Parse decodes a notebook from r and validates its structure.
func Parse(r io.Reader) (*types.Notebook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading notebook: %w", err)
	}

	// Probe for required top-level keys before the typed decode, which
	// cannot tell a missing cells key from an empty list.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for _, key := range []string{"nbformat", "cells"} {
		if _, ok := probe[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrMalformed, key)
		}
	}

	var nb types.Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if nb.NBFormat != SupportedFormat {
		return nil, fmt.Errorf("%w: unsupported nbformat %d", ErrMalformed, nb.NBFormat)
	}

	for i, c := range nb.Cells {
		switch c.CellType {
		case types.CellMarkdown, types.CellCode, types.CellRaw:
		default:
			return nil, fmt.Errorf("%w: cell %d has unknown type %q", ErrMalformed, i, c.CellType)
		}
	}
	if nb.Metadata == nil {
		nb.Metadata = map[string]any{}
	}
	return &nb, nil
}
