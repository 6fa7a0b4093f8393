// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"html/template"
	"strings"
)

// mathSpans holds LaTeX spans lifted out of Markdown source so that
// CommonMark escapes and emphasis cannot touch them. MathJax renders them
// from the page text.
type mathSpans struct {
	spans []string
}

func (m *mathSpans) placeholder(span string) string {
	m.spans = append(m.spans, span)
	return fmt.Sprintf("NBXMATH%dXMATHNB", len(m.spans)-1)
}

// restore swaps placeholders in rendered HTML for the escaped original spans.
func (m *mathSpans) restore(rendered string) string {
	if len(m.spans) == 0 {
		return rendered
	}
	pairs := make([]string, 0, 2*len(m.spans))
	for i, s := range m.spans {
		pairs = append(pairs, fmt.Sprintf("NBXMATH%dXMATHNB", i), template.HTMLEscapeString(s))
	}
	return strings.NewReplacer(pairs...).Replace(rendered)
}

// protectMath replaces $$..$$, $..$, \[..\], \(..\) and \begin{env}..\end{env}
// spans with placeholders. Code spans and fenced code blocks are copied
// untouched, as are unterminated delimiters.
func protectMath(src string) (string, *mathSpans) {
	m := &mathSpans{}
	var b strings.Builder
	b.Grow(len(src))

	i := 0
	for i < len(src) {
		if atLineStart(src, i) {
			if end, ok := fencedBlock(src, i); ok {
				b.WriteString(src[i:end])
				i = end
				continue
			}
		}

		rest := src[i:]
		switch {
		case rest[0] == '`':
			n := runLength(rest, '`')
			fence := rest[:n]
			if j := strings.Index(rest[n:], fence); j >= 0 {
				end := n + j + n
				b.WriteString(rest[:end])
				i += end
				continue
			}
			b.WriteString(fence)
			i += n
			continue

		case strings.HasPrefix(rest, `\$`):
			b.WriteString(`\$`)
			i += 2
			continue

		case strings.HasPrefix(rest, "$$"):
			if j := strings.Index(rest[2:], "$$"); j >= 0 {
				end := 2 + j + 2
				b.WriteString(m.placeholder(rest[:end]))
				i += end
				continue
			}

		case rest[0] == '$':
			if end, ok := inlineDollar(rest); ok {
				b.WriteString(m.placeholder(rest[:end]))
				i += end
				continue
			}

		case strings.HasPrefix(rest, `\[`), strings.HasPrefix(rest, `\(`):
			closer := `\]`
			if rest[1] == '(' {
				closer = `\)`
			}
			if j := strings.Index(rest[2:], closer); j >= 0 {
				end := 2 + j + 2
				b.WriteString(m.placeholder(rest[:end]))
				i += end
				continue
			}

		case strings.HasPrefix(rest, `\begin{`):
			if end, ok := environment(rest); ok {
				b.WriteString(m.placeholder(rest[:end]))
				i += end
				continue
			}
		}

		b.WriteByte(src[i])
		i++
	}
	return b.String(), m
}

// inlineDollar finds the closing $ of an inline span starting at s[0]. The
// span must be non-empty, must not cross a blank line, and the closer must
// not be escaped.
func inlineDollar(s string) (int, bool) {
	for j := 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '\n':
			if j+1 < len(s) && s[j+1] == '\n' {
				return 0, false
			}
		case '$':
			if j == 1 {
				return 0, false
			}
			return j + 1, true
		}
	}
	return 0, false
}

// environment matches \begin{name}...\end{name} at the start of s.
func environment(s string) (int, bool) {
	open := len(`\begin{`)
	brace := strings.IndexByte(s[open:], '}')
	if brace <= 0 {
		return 0, false
	}
	name := s[open : open+brace]
	endTag := `\end{` + name + `}`
	j := strings.Index(s, endTag)
	if j < 0 {
		return 0, false
	}
	return j + len(endTag), true
}

func atLineStart(s string, i int) bool {
	return i == 0 || s[i-1] == '\n'
}

// fencedBlock returns the end of a ``` or ~~~ fenced block opening at i.
// An unclosed fence runs to the end of the source, as in CommonMark.
func fencedBlock(s string, i int) (int, bool) {
	line := s[i:]
	indent := 0
	for indent < 3 && indent < len(line) && line[indent] == ' ' {
		indent++
	}
	line = line[indent:]
	if len(line) == 0 || (line[0] != '`' && line[0] != '~') {
		return 0, false
	}
	n := runLength(line, line[0])
	if n < 3 {
		return 0, false
	}
	fence := line[:n]

	pos := i + indent + n
	nl := strings.IndexByte(s[pos:], '\n')
	if nl < 0 {
		return len(s), true
	}
	pos += nl + 1
	for pos < len(s) {
		end := strings.IndexByte(s[pos:], '\n')
		lineEnd := len(s)
		if end >= 0 {
			lineEnd = pos + end + 1
		}
		if strings.HasPrefix(strings.TrimLeft(s[pos:lineEnd], " "), fence) {
			return lineEnd, true
		}
		pos = lineEnd
	}
	return len(s), true
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}
