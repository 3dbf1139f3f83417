package anchor

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxSelectionRunes = 220
	PrefixRunes       = 24
	SuffixRunes       = 28

	minSelectionRunes = 2
)

var (
	ErrEmptySelection      = errors.New("selection is empty")
	ErrSelectionOutOfRange = errors.New("selection is outside the document")
)

// Selection is what the reader selected: absolute offsets into the rendered
// text when known (End > Start), otherwise only the selected Text.
type Selection struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Capture is everything recorded about a selection. Anchor is the variant
// to share: Paragraphs when the selection covers whole paragraphs, else
// Range when offsets are known, else Payload.
type Capture struct {
	Anchor     Anchor          `json:"-"`
	Payload    TextPayload     `json:"payload"`
	Range      *CharRange      `json:"range,omitempty"`
	Paragraphs *ParagraphRange `json:"paragraphs,omitempty"`
}

// Create captures sel against doc.
func Create(doc *Document, sel Selection) (Capture, error) {
	if sel.End > sel.Start {
		return captureRange(doc, sel.Start, sel.End)
	}
	text := truncateRunes(normalizeWhitespace(sel.Text), MaxSelectionRunes)
	if utf8.RuneCountInString(text) < minSelectionRunes {
		return Capture{}, ErrEmptySelection
	}
	p := TextPayload{Text: text}
	return Capture{Anchor: p, Payload: p}, nil
}

func captureRange(doc *Document, start, end int) (Capture, error) {
	text := doc.Text()
	if start < 0 || end > len(text) {
		return Capture{}, ErrSelectionOutOfRange
	}
	start, end, _ = charSpan(doc, CharRange{Start: start, End: end})

	selected := normalizeWhitespace(text[start:end])
	if utf8.RuneCountInString(selected) < minSelectionRunes {
		return Capture{}, ErrEmptySelection
	}

	blockStart, _ := doc.blockBounds(start)
	_, blockEnd := doc.blockBounds(end - 1)
	c := Capture{
		Payload: TextPayload{
			Text:   truncateRunes(selected, MaxSelectionRunes),
			Prefix: leadingContext(text[blockStart:start], PrefixRunes),
			Suffix: trailingContext(text[end:max(end, blockEnd)], SuffixRunes),
		},
	}
	r := CharRange{Start: start, End: end}
	c.Range, c.Anchor = &r, r
	if p, ok := coveredParagraphs(doc, start, end); ok {
		c.Paragraphs, c.Anchor = &p, p
	}
	return c, nil
}

// coveredParagraphs reports the paragraphs [start, end) spans when it
// begins at the first and ends at the last character of whole paragraphs,
// ignoring whitespace at either edge.
func coveredParagraphs(doc *Document, start, end int) (ParagraphRange, bool) {
	text := doc.Text()
	sel := text[start:end]
	s := start + (len(sel) - len(strings.TrimLeftFunc(sel, unicode.IsSpace)))
	e := end - (len(sel) - len(strings.TrimRightFunc(sel, unicode.IsSpace)))
	if e <= s {
		return ParagraphRange{}, false
	}
	first, ok1 := doc.ParagraphAt(s)
	last, ok2 := doc.ParagraphAt(e - 1)
	if !ok1 || !ok2 {
		return ParagraphRange{}, false
	}
	if strings.TrimSpace(text[first.Start:s]) != "" || strings.TrimSpace(text[e:last.End]) != "" {
		return ParagraphRange{}, false
	}
	return NewParagraphRange(first.Index, last.Index), true
}

// leadingContext keeps the last n runes of s, dropping a word cut in half
// at the left edge.
func leadingContext(s string, n int) string {
	s = normalizeWhitespace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := r[len(r)-n:]
	if isWordRune(r[len(r)-n-1]) && isWordRune(cut[0]) {
		i := indexRune(cut, ' ')
		if i < 0 {
			return ""
		}
		cut = cut[i+1:]
	}
	return strings.TrimSpace(string(cut))
}

// trailingContext keeps the first n runes of s, dropping a word cut in half
// at the right edge.
func trailingContext(s string, n int) string {
	s = normalizeWhitespace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := r[:n]
	if isWordRune(r[n]) && isWordRune(cut[n-1]) {
		i := lastIndexRune(cut, ' ')
		if i < 0 {
			return ""
		}
		cut = cut[:i]
	}
	return strings.TrimSpace(string(cut))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

func indexRune(rs []rune, x rune) int {
	for i, r := range rs {
		if r == x {
			return i
		}
	}
	return -1
}

func lastIndexRune(rs []rune, x rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == x {
			return i
		}
	}
	return -1
}
