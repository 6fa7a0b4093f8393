// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Resources is the secondary output of an export: facts about the rendered
// document that callers may log or ignore.
type Resources struct {
	// Name is the notebook base name without extension.
	Name string `json:"name" yaml:"name"`

	// Title is the HTML document title.
	Title string `json:"title" yaml:"title"`

	// OutputExtension is the file extension the exporter produces (".html").
	OutputExtension string `json:"output_extension" yaml:"output_extension"`

	// Cells and Outputs count what was rendered.
	Cells   int `json:"cells" yaml:"cells"`
	Outputs int `json:"outputs" yaml:"outputs"`
}
