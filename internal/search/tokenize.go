package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WordSpan is a word located in a text. Offset is a byte offset; Lower is
// the ASCII-lowercased word.
type WordSpan struct {
	Offset int
	Raw    string
	Lower  string
}

// Tokenize returns the words of text in order. A word is a run of ASCII
// letters and digits, optionally continued by a single ' or - followed by
// another run ("don't", "twenty-one"). Everything else separates words.
func Tokenize(text string) []WordSpan {
	var spans []WordSpan
	n := len(text)
	for i := 0; i < n; {
		if !isWordByte(text[i]) {
			i++
			continue
		}
		start := i
		for i < n && isWordByte(text[i]) {
			i++
		}
		for i+1 < n && (text[i] == '\'' || text[i] == '-') && isWordByte(text[i+1]) {
			i++
			for i < n && isWordByte(text[i]) {
				i++
			}
		}
		raw := text[start:i]
		spans = append(spans, WordSpan{Offset: start, Raw: raw, Lower: strings.ToLower(raw)})
	}
	return spans
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// FoldCase lowercases s without changing its byte length: a rune whose
// lowercase form encodes to a different number of bytes is kept as is, and
// so are invalid bytes. Offsets found in the folded string are therefore
// valid in s.
func FoldCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		if l := unicode.ToLower(r); l != r && utf8.RuneLen(l) == size {
			b.WriteRune(l)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// Text is a document body prepared for matching.
type Text struct {
	Plain  string
	Lower  string
	Tokens []WordSpan
}

// NewText folds and tokenizes s once so repeated queries reuse the work.
func NewText(s string) Text {
	return Text{Plain: s, Lower: FoldCase(s), Tokens: Tokenize(s)}
}
