// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for nbexport: the nbformat
// notebook model, export configuration, and conversion records.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CellType identifies the kind of a notebook cell.
type CellType string

const (
	CellMarkdown CellType = "markdown"
	CellCode     CellType = "code"
	CellRaw      CellType = "raw"
)

// OutputType identifies the kind of a code cell output.
type OutputType string

const (
	OutputStream        OutputType = "stream"
	OutputExecuteResult OutputType = "execute_result"
	OutputDisplayData   OutputType = "display_data"
	OutputError         OutputType = "error"
)

// MultilineString is an nbformat text field. On disk it is either a single
// string or a list of lines; in memory it is always the joined text.
type MultilineString string

// UnmarshalJSON accepts both the string and the list-of-strings encodings.
func (m *MultilineString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = MultilineString(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("multiline string must be a string or list of strings: %w", err)
	}
	*m = MultilineString(strings.Join(lines, ""))
	return nil
}

// String returns the joined text.
func (m MultilineString) String() string { return string(m) }

// MimeBundle maps MIME types to output content. Text payloads are joined like
// MultilineString; structured payloads (application/json and friends) are kept
// as their raw JSON text.
type MimeBundle map[string]MultilineString

// UnmarshalJSON decodes a MIME bundle, preserving non-text values as JSON.
func (b *MimeBundle) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(MimeBundle, len(raw))
	for mime, v := range raw {
		var text MultilineString
		if err := text.UnmarshalJSON(v); err != nil {
			text = MultilineString(v)
		}
		out[mime] = text
	}
	*b = out
	return nil
}

// Notebook is an nbformat v4 document: notebook-level metadata and an ordered
// sequence of cells.
type Notebook struct {
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
	Cells         []Cell         `json:"cells"`
}

// Cell is one notebook cell. Outputs and ExecutionCount are only meaningful
// for code cells.
type Cell struct {
	CellType       CellType        `json:"cell_type"`
	ID             string          `json:"id,omitempty"`
	Source         MultilineString `json:"source"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	ExecutionCount *int            `json:"execution_count,omitempty"`
	Outputs        []Output        `json:"outputs,omitempty"`

	// Attachments maps file names referenced as "attachment:<name>" in
	// markdown sources to base64-encoded MIME bundles.
	Attachments map[string]MimeBundle `json:"attachments,omitempty"`
}

// Output is a single code cell output.
type Output struct {
	OutputType OutputType `json:"output_type"`

	// Name and Text are set for stream outputs ("stdout" or "stderr").
	Name string          `json:"name,omitempty"`
	Text MultilineString `json:"text,omitempty"`

	// Data maps MIME types to content for execute_result and display_data.
	Data           MimeBundle     `json:"data,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ExecutionCount *int           `json:"execution_count,omitempty"`

	// EName, EValue, and Traceback are set for error outputs.
	EName     string   `json:"ename,omitempty"`
	EValue    string   `json:"evalue,omitempty"`
	Traceback []string `json:"traceback,omitempty"`
}

// StringMeta returns a string value from nested metadata, following keys in
// order. It returns "" when any key is missing or the leaf is not a string.
func StringMeta(meta map[string]any, keys ...string) string {
	var cur any = meta
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[k]
	}
	s, _ := cur.(string)
	return s
}
