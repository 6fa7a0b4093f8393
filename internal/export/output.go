// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/pdiddy/nbexport/pkg/types"
)

// mimePriority is the order in which rich output representations are
// preferred. The first one present in an output's bundle is rendered.
var mimePriority = []string{
	"text/html",
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"text/markdown",
	"text/latex",
	"application/json",
	"text/plain",
}

// ansiEscape matches terminal color and cursor sequences found in tracebacks.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// renderOutput renders one code cell output. It reports false for outputs that
// have no displayable representation.
func (e *HTMLExporter) renderOutput(o types.Output) (renderedOutput, bool, error) {
	switch o.OutputType {
	case types.OutputStream:
		name := o.Name
		if name == "" {
			name = "stdout"
		}
		return renderedOutput{Kind: name, Body: preformatted(o.Text.String())}, true, nil

	case types.OutputError:
		tb := strings.Join(o.Traceback, "\n")
		if tb == "" {
			tb = o.EName + ": " + o.EValue
		}
		return renderedOutput{Kind: "error", Body: preformatted(StripANSI(tb))}, true, nil

	case types.OutputExecuteResult, types.OutputDisplayData:
		mime, ok := selectMime(o.Data)
		if !ok {
			return renderedOutput{}, false, nil
		}
		body, err := e.renderMime(mime, o.Data[mime].String())
		if err != nil {
			return renderedOutput{}, false, err
		}
		ro := renderedOutput{Kind: kindForMime(mime), Body: body}
		if o.OutputType == types.OutputExecuteResult {
			ro.Prompt = prompt("Out", o.ExecutionCount)
		}
		return ro, true, nil
	}
	return renderedOutput{}, false, nil
}

func (e *HTMLExporter) renderMime(mime, data string) (template.HTML, error) {
	switch mime {
	case "text/html", "image/svg+xml":
		return template.HTML(data), nil
	case "image/png", "image/jpeg":
		return dataImage(mime, data), nil
	case "text/markdown":
		return e.markdown(data, nil)
	case "text/latex":
		return template.HTML(`<div class="latex">` + template.HTMLEscapeString(data) + `</div>`), nil
	default:
		return preformatted(data), nil
	}
}

func selectMime(bundle types.MimeBundle) (string, bool) {
	for _, m := range mimePriority {
		if _, ok := bundle[m]; ok {
			return m, true
		}
	}
	return "", false
}

func kindForMime(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "image"
	case mime == "text/plain", mime == "application/json":
		return "text"
	default:
		return strings.TrimPrefix(mime, "text/")
	}
}

// dataImage inlines a base64 image payload. nbformat allows line breaks
// inside the encoded data; they are removed.
func dataImage(mime, b64 string) template.HTML {
	clean := strings.Join(strings.Fields(b64), "")
	return template.HTML(fmt.Sprintf(`<img src="data:%s;base64,%s">`, mime, template.HTMLEscapeString(clean)))
}

func preformatted(text string) template.HTML {
	return template.HTML("<pre>" + template.HTMLEscapeString(text) + "</pre>")
}

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
