// Package anchor identifies passages inside a rendered section so they can
// be shared as links and highlighted again when the link is opened.
//
// Five anchor variants exist, tried in this order when a link carries more
// than one: paragraph range, character range, text payload, query
// occurrence, query only. Offsets are byte offsets into the rendered text
// of a section (see Document).
package anchor

import (
	"github.com/tbourn/go-reader-backend/internal/search"
)

// Kind names an anchor variant. Lower values take precedence.
type Kind int

const (
	KindNone Kind = iota
	KindParagraph
	KindCharRange
	KindText
	KindOccurrence
	KindQuery
)

var kindNames = [...]string{"none", "paragraph", "range", "payload", "occurrence", "query_only"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Anchor is one of ParagraphRange, CharRange, TextPayload, QueryOccurrence
// or QueryOnly.
type Anchor interface {
	Kind() Kind
	sealed()
}

// ParagraphRange spans whole paragraphs, 1-based and inclusive. Start <= End.
type ParagraphRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// CharRange spans [Start, End) of the rendered text.
type CharRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TextPayload is a quoted passage with optional surrounding context.
type TextPayload struct {
	Text   string `json:"text"`
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

// QueryOccurrence is the Occurrence-th (1-based) match of a search query.
type QueryOccurrence struct {
	Query         string      `json:"query"`
	Occurrence    int         `json:"occurrence"`
	Mode          search.Mode `json:"mode"`
	CaseSensitive bool        `json:"case_sensitive"`
}

// QueryOnly highlights every match of a search query.
type QueryOnly struct {
	Query         string      `json:"query"`
	Mode          search.Mode `json:"mode"`
	CaseSensitive bool        `json:"case_sensitive"`
}

func (ParagraphRange) Kind() Kind  { return KindParagraph }
func (CharRange) Kind() Kind       { return KindCharRange }
func (TextPayload) Kind() Kind     { return KindText }
func (QueryOccurrence) Kind() Kind { return KindOccurrence }
func (QueryOnly) Kind() Kind       { return KindQuery }

func (ParagraphRange) sealed()  {}
func (CharRange) sealed()       {}
func (TextPayload) sealed()     {}
func (QueryOccurrence) sealed() {}
func (QueryOnly) sealed()       {}

// NewParagraphRange orders the bounds so Start <= End.
func NewParagraphRange(a, b int) ParagraphRange {
	return ParagraphRange{Start: min(a, b), End: max(a, b)}
}
