package anchor

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tbourn/go-reader-backend/internal/search"
)

// DefaultQueryCap bounds how many matches a query-only anchor highlights.
const DefaultQueryCap = 160

const (
	contextWindow = 28
	contextSlack  = 8
	fallbackWords = 4
)

// Range is a resolved passage with the node segments that paint it.
// From and To are its boundary points as node positions.
type Range struct {
	Start    int       `json:"start"`
	End      int       `json:"end"`
	Text     string    `json:"text"`
	From     Position  `json:"from"`
	To       Position  `json:"to"`
	Segments []Segment `json:"segments"`
}

// Resolution is the outcome of resolving anchors against a document.
// Strategy is the variant that produced Ranges, or KindNone.
type Resolution struct {
	Strategy  Kind    `json:"strategy"`
	Resolved  bool    `json:"resolved"`
	Ranges    []Range `json:"ranges"`
	Attempted []Kind  `json:"attempted,omitempty"`

	// Query-only bookkeeping.
	TotalHits   int  `json:"total_hits"`
	Highlighted int  `json:"highlighted"`
	Capped      bool `json:"capped"`
}

// Notice is the message shown when query-only highlighting was capped.
func (r Resolution) Notice() string {
	if !r.Capped {
		return ""
	}
	return fmt.Sprintf("Showing first %d of %d matches.", r.Highlighted, r.TotalHits)
}

// Resolver maps anchors onto freshly rendered documents.
type Resolver struct {
	QueryCap int
}

// NewResolver returns a Resolver with DefaultQueryCap.
func NewResolver() *Resolver {
	return &Resolver{QueryCap: DefaultQueryCap}
}

// Resolve tries the anchors in precedence order and returns the first that
// maps onto doc. Nil anchors are ignored; a document with no anchors or no
// resolvable anchor yields an unresolved Resolution.
func (r *Resolver) Resolve(doc *Document, anchors ...Anchor) Resolution {
	list := make([]Anchor, 0, len(anchors))
	for _, a := range anchors {
		if a != nil {
			list = append(list, a)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Kind() < list[j].Kind() })

	res := Resolution{Strategy: KindNone}
	for _, a := range list {
		res.Attempted = append(res.Attempted, a.Kind())
		out, ok := r.resolveOne(doc, a)
		if ok {
			out.Attempted = res.Attempted
			return out
		}
		res.TotalHits = out.TotalHits
	}
	return res
}

func (r *Resolver) resolveOne(doc *Document, a Anchor) (Resolution, bool) {
	switch a := a.(type) {
	case ParagraphRange:
		start, end, ok := paragraphSpan(doc, a)
		return r.single(doc, a.Kind(), start, end, ok)
	case CharRange:
		start, end, ok := charSpan(doc, a)
		return r.single(doc, a.Kind(), start, end, ok)
	case TextPayload:
		start, end, ok := payloadSpan(doc, a)
		return r.single(doc, a.Kind(), start, end, ok)
	case QueryOccurrence:
		return r.occurrence(doc, a)
	case QueryOnly:
		return r.queryOnly(doc, a)
	}
	return Resolution{}, false
}

// occurrence numbers hits over the searchable text when the document
// carries one that aligns with the rendered text, and over the rendered text
// otherwise.
func (r *Resolver) occurrence(doc *Document, a QueryOccurrence) (Resolution, bool) {
	if plain, rendered, lead, ok := doc.plainMapping(); ok {
		hits := search.FindOccurrences(doc.plain, a.Query, a.Mode, a.CaseSensitive)
		if a.Occurrence < 1 || a.Occurrence > len(hits) {
			return Resolution{TotalHits: len(hits)}, false
		}
		h := hits[a.Occurrence-1]
		start, end, ok := fromPlain(plain, rendered, lead, h.Offset, h.Offset+h.Length, doc.text)
		res, ok := r.single(doc, a.Kind(), start, end, ok)
		res.TotalHits = len(hits)
		return res, ok
	}
	hits := search.FindOccurrences(doc.Text(), a.Query, a.Mode, a.CaseSensitive)
	if a.Occurrence < 1 || a.Occurrence > len(hits) {
		return Resolution{TotalHits: len(hits)}, false
	}
	h := hits[a.Occurrence-1]
	res, ok := r.single(doc, a.Kind(), h.Offset, h.Offset+h.Length, true)
	res.TotalHits = len(hits)
	return res, ok
}

func (r *Resolver) single(doc *Document, kind Kind, start, end int, ok bool) (Resolution, bool) {
	if !ok || start < 0 || end > doc.Len() || end <= start {
		return Resolution{}, false
	}
	return Resolution{Strategy: kind, Resolved: true, Ranges: []Range{newRange(doc, start, end)}, Highlighted: 1}, true
}

func (r *Resolver) queryOnly(doc *Document, a QueryOnly) (Resolution, bool) {
	hits := search.FindOccurrences(doc.Text(), a.Query, a.Mode, a.CaseSensitive)
	if len(hits) == 0 {
		return Resolution{}, false
	}
	limit := r.QueryCap
	if limit <= 0 {
		limit = DefaultQueryCap
	}
	limit = min(limit, len(hits))
	res := Resolution{
		Strategy:    KindQuery,
		Resolved:    true,
		Ranges:      make([]Range, 0, limit),
		TotalHits:   len(hits),
		Highlighted: limit,
		Capped:      len(hits) > limit,
	}
	for _, h := range hits[:limit] {
		res.Ranges = append(res.Ranges, newRange(doc, h.Offset, h.Offset+h.Length))
	}
	return res, true
}

func newRange(doc *Document, start, end int) Range {
	from, _ := doc.locate(start, false)
	to, _ := doc.locate(end, true)
	return Range{Start: start, End: end, Text: doc.Text()[start:end], From: from, To: to, Segments: doc.Segments(start, end)}
}

func paragraphSpan(doc *Document, a ParagraphRange) (int, int, bool) {
	a = NewParagraphRange(a.Start, a.End)
	first, ok1 := doc.Paragraph(a.Start)
	last, ok2 := doc.Paragraph(a.End)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return first.Start, last.End, true
}

// charSpan validates a range and widens it to whole runes.
func charSpan(doc *Document, a CharRange) (int, int, bool) {
	text := doc.Text()
	if a.Start < 0 || a.End > len(text) || a.End <= a.Start {
		return 0, 0, false
	}
	start, end := a.Start, a.End
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return start, end, true
}

// payloadSpan finds the stored text, retrying with its first four words,
// and picks the candidate whose surroundings agree best with the stored
// context. Ties go to the earliest candidate.
func payloadSpan(doc *Document, a TextPayload) (int, int, bool) {
	text := normalizeWhitespace(a.Text)
	if text == "" {
		return 0, 0, false
	}
	hits := search.FindOccurrences(doc.Text(), text, search.ModeContains, false)
	if len(hits) == 0 {
		if words := strings.Fields(text); len(words) >= fallbackWords {
			hits = search.FindOccurrences(doc.Text(), strings.Join(words[:fallbackWords], " "), search.ModeContains, false)
		}
	}
	if len(hits) == 0 {
		return 0, 0, false
	}

	prefix := usableContext(a.Prefix)
	suffix := usableContext(a.Suffix)
	best := hits[0]
	if prefix != "" || suffix != "" {
		lower := search.FoldCase(doc.Text())
		bestScore := -1
		for _, h := range hits {
			score := 0
			if prefix != "" {
				from := max(0, h.Offset-max(len(prefix)+contextSlack, contextWindow))
				if strings.Contains(lower[from:h.Offset], prefix) {
					score++
				}
			}
			if suffix != "" {
				end := h.Offset + h.Length
				to := min(len(lower), end+max(len(suffix)+contextSlack, contextWindow))
				if strings.Contains(lower[end:to], suffix) {
					score++
				}
			}
			if score > bestScore {
				best, bestScore = h, score
			}
		}
	}
	return best.Offset, best.Offset + best.Length, true
}

// usableContext normalizes stored context; context shorter than
// MinContextRunes is too weak to disambiguate and is dropped.
func usableContext(s string) string {
	s = normalizeWhitespace(s)
	if utf8.RuneCountInString(s) < MinContextRunes {
		return ""
	}
	return search.FoldCase(s)
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
