package search

import (
	"html"
	"strings"
	"unicode/utf8"
)

const (
	SnippetBefore = 90
	SnippetAfter  = 130

	ellipsis = "..."
)

// Snippet returns the context around [offset, offset+length): up to
// SnippetBefore characters before and SnippetAfter characters after, cut on
// rune boundaries and trimmed. "... " and " ..." mark the sides that were cut.
func Snippet(text string, offset, length int) string {
	start := min(max(offset, 0), len(text))
	end := min(start+max(length, 0), len(text))
	for n := 0; n < SnippetBefore && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	for n := 0; n < SnippetAfter && end < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	s := strings.TrimSpace(text[start:end])
	if start > 0 {
		s = ellipsis + " " + s
	}
	if end < len(text) {
		s += " " + ellipsis
	}
	return s
}

// Highlight HTML-escapes snippet and wraps every case-insensitive literal
// occurrence of term in <mark> tags. The markers themselves are not escaped.
func Highlight(snippet, term string) string {
	m := compileMatcher(term, ModeContains, false)
	if m == nil {
		return html.EscapeString(snippet)
	}
	var b strings.Builder
	last := 0
	for _, o := range m.find(NewText(snippet)) {
		b.WriteString(html.EscapeString(snippet[last:o.Offset]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(snippet[o.Offset : o.Offset+o.Length]))
		b.WriteString("</mark>")
		last = o.Offset + o.Length
	}
	b.WriteString(html.EscapeString(snippet[last:]))
	return b.String()
}
