// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders notebook documents as standalone HTML pages.
package export

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/pdiddy/nbexport/internal/notebook"
	"github.com/pdiddy/nbexport/pkg/types"
)

const (
	outputExtension = ".html"
	defaultLanguage = "python"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// Options tunes what the HTML exporter includes.
type Options struct {
	// ExcludeInput drops code cell sources and keeps their outputs.
	ExcludeInput bool
}

// HTMLExporter converts notebooks to a single self-contained HTML page.
// Markdown cells go through goldmark with GitHub Flavored Markdown; code
// cells and their outputs are laid out with input and output prompts.
type HTMLExporter struct {
	opts Options
	md   goldmark.Markdown
}

// NewHTMLExporter returns an exporter configured with opts.
func NewHTMLExporter(opts Options) *HTMLExporter {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithASTTransformers(
			util.Prioritized(attachmentTransformer{}, 100),
		)),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	return &HTMLExporter{opts: opts, md: md}
}

// FromFilename loads the notebook at path and renders it.
func (e *HTMLExporter) FromFilename(ctx context.Context, path string) (string, types.Resources, error) {
	if err := ctx.Err(); err != nil {
		return "", types.Resources{}, err
	}
	nb, err := notebook.Load(path)
	if err != nil {
		return "", types.Resources{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return e.FromNotebook(nb, name)
}

// page is the data handed to the page template.
type page struct {
	Title    string
	Language string
	Cells    []renderedCell
}

type renderedCell struct {
	Kind    types.CellType
	Prompt  string
	Input   template.HTML
	Outputs []renderedOutput
}

type renderedOutput struct {
	Kind   string
	Prompt string
	Body   template.HTML
}

// FromNotebook renders an already-loaded notebook. name is used for the
// title when neither metadata nor a top-level heading supplies one.
func (e *HTMLExporter) FromNotebook(nb *types.Notebook, name string) (string, types.Resources, error) {
	lang := notebookLanguage(nb)
	p := page{Language: lang}
	var markdownHTML strings.Builder
	outputs := 0

	for i, c := range nb.Cells {
		rc, err := e.renderCell(c, lang)
		if err != nil {
			return "", types.Resources{}, fmt.Errorf("rendering cell %d: %w", i, err)
		}
		if c.CellType == types.CellMarkdown {
			markdownHTML.WriteString(string(rc.Input))
		}
		outputs += len(rc.Outputs)
		if rc.Input == "" && len(rc.Outputs) == 0 {
			continue
		}
		p.Cells = append(p.Cells, rc)
	}

	p.Title = types.StringMeta(nb.Metadata, "title")
	if p.Title == "" {
		p.Title = firstHeading(markdownHTML.String())
	}
	if p.Title == "" {
		p.Title = name
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return "", types.Resources{}, fmt.Errorf("executing page template: %w", err)
	}

	res := types.Resources{
		Name:            name,
		Title:           p.Title,
		OutputExtension: outputExtension,
		Cells:           len(p.Cells),
		Outputs:         outputs,
	}
	return buf.String(), res, nil
}

func (e *HTMLExporter) renderCell(c types.Cell, lang string) (renderedCell, error) {
	rc := renderedCell{Kind: c.CellType}

	switch c.CellType {
	case types.CellMarkdown:
		body, err := e.markdown(c.Source.String(), c.Attachments)
		if err != nil {
			return rc, err
		}
		rc.Input = body

	case types.CellRaw:
		if rawMimetype(c) == "text/html" {
			rc.Input = template.HTML(c.Source.String())
		}

	case types.CellCode:
		rc.Prompt = prompt("In", c.ExecutionCount)
		if !e.opts.ExcludeInput {
			rc.Input = codeBlock(c.Source.String(), lang)
		}
		for _, o := range c.Outputs {
			ro, ok, err := e.renderOutput(o)
			if err != nil {
				return rc, err
			}
			if ok {
				rc.Outputs = append(rc.Outputs, ro)
			}
		}
	}
	return rc, nil
}

// markdown renders a Markdown source. LaTeX spans are kept out of goldmark's
// reach and restored verbatim; "attachment:" images resolve against atts.
func (e *HTMLExporter) markdown(src string, atts map[string]types.MimeBundle) (template.HTML, error) {
	protected, math := protectMath(src)

	pc := parser.NewContext()
	if len(atts) > 0 {
		pc.Set(attachmentsKey, atts)
	}

	var buf bytes.Buffer
	if err := e.md.Convert([]byte(protected), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(math.restore(buf.String())), nil
}

// notebookLanguage picks the code language from language_info, then the
// kernelspec, then falls back to python.
func notebookLanguage(nb *types.Notebook) string {
	if l := types.StringMeta(nb.Metadata, "language_info", "name"); l != "" {
		return l
	}
	if l := types.StringMeta(nb.Metadata, "kernelspec", "language"); l != "" {
		return l
	}
	return defaultLanguage
}

func rawMimetype(c types.Cell) string {
	if m := types.StringMeta(c.Metadata, "raw_mimetype"); m != "" {
		return m
	}
	return types.StringMeta(c.Metadata, "format")
}

func prompt(label string, count *int) string {
	if count == nil {
		return label + " [ ]:"
	}
	return fmt.Sprintf("%s [%d]:", label, *count)
}

func codeBlock(src, lang string) template.HTML {
	return template.HTML(fmt.Sprintf(`<pre><code class="language-%s">%s</code></pre>`,
		template.HTMLEscapeString(lang), template.HTMLEscapeString(src)))
}
