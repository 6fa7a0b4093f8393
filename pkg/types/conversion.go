// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus is the outcome of converting one notebook.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Conversion records a single notebook conversion attempt.
type Conversion struct {
	// Notebook is the source .ipynb path.
	Notebook string `json:"notebook" yaml:"notebook"`

	// Output is the derived .html path.
	Output string `json:"output" yaml:"output"`

	// Status is converted or failed.
	Status ConversionStatus `json:"status" yaml:"status"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Bytes is the size of the written HTML.
	Bytes int `json:"bytes" yaml:"bytes"`

	// ConvertedAt is when the attempt finished.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
