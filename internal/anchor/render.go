package anchor

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/tbourn/go-reader-backend/internal/content"
)

// Node is an opaque handle to one rendered inline run: the Inline-th run of
// the Block-th block. The renderer maps it back to whatever it painted.
type Node struct {
	Block  int `json:"block"`
	Inline int `json:"inline"`
}

// Span places a node in the rendered text: [Start, End).
type Span struct {
	Node  Node `json:"node"`
	Start int  `json:"start"`
	End   int  `json:"end"`
}

// Paragraph is a paragraph block with its 1-based index among paragraphs.
type Paragraph struct {
	Index int `json:"index"`
	Block int `json:"block"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Position is a point inside a node.
type Position struct {
	Node   Node `json:"node"`
	Offset int  `json:"offset"`
}

// Segment is the part of a range that falls inside one node, in node-local
// offsets [From, To).
type Segment struct {
	Node Node `json:"node"`
	From int  `json:"from"`
	To   int  `json:"to"`
}

// Document is the rendered text of a section together with the span list
// that maps absolute offsets back to nodes. It is rebuilt on every render
// and immutable afterwards.
type Document struct {
	text       string
	spans      []Span
	paragraphs []Paragraph
	blocks     [][2]int // [start, end) per block

	// plain is the searchable text of the section, when known. Query
	// occurrences are numbered over it so deep links from search results
	// land on the hit search reported.
	plain string
}

// Render lays out blocks in order. The rendered text is the concatenation
// of every non-empty inline run with no separators; rules contribute no
// text.
func Render(blocks []content.Block) *Document {
	d := &Document{blocks: make([][2]int, len(blocks))}
	var buf []byte
	for bi, b := range blocks {
		start := len(buf)
		for ii, in := range b.Inlines {
			if in.Text == "" {
				continue
			}
			s := len(buf)
			buf = append(buf, in.Text...)
			d.spans = append(d.spans, Span{Node: Node{Block: bi, Inline: ii}, Start: s, End: len(buf)})
		}
		d.blocks[bi] = [2]int{start, len(buf)}
		if b.Kind == content.BlockParagraph {
			d.paragraphs = append(d.paragraphs, Paragraph{Index: len(d.paragraphs) + 1, Block: bi, Start: start, End: len(buf)})
		}
	}
	d.text = string(buf)
	return d
}

// RenderSection renders the content blocks of s and keeps its searchable
// text for occurrence numbering.
func RenderSection(s *content.Section) *Document {
	d := Render(s.ContentBlocks)
	d.plain = s.PlainText
	return d
}

// Text returns the rendered text.
func (d *Document) Text() string { return d.text }

// Len returns the rendered text length in bytes.
func (d *Document) Len() int { return len(d.text) }

// Spans returns the node spans in order.
func (d *Document) Spans() []Span { return d.spans }

// Paragraphs returns the paragraphs in order.
func (d *Document) Paragraphs() []Paragraph { return d.paragraphs }

// Paragraph returns the paragraph with the given 1-based index.
func (d *Document) Paragraph(index int) (Paragraph, bool) {
	if index < 1 || index > len(d.paragraphs) {
		return Paragraph{}, false
	}
	return d.paragraphs[index-1], true
}

// ParagraphAt returns the paragraph containing offset.
func (d *Document) ParagraphAt(offset int) (Paragraph, bool) {
	i := sort.Search(len(d.paragraphs), func(i int) bool { return d.paragraphs[i].End > offset })
	if i < len(d.paragraphs) && d.paragraphs[i].Start <= offset {
		return d.paragraphs[i], true
	}
	return Paragraph{}, false
}

// blockBounds returns the [start, end) of the block containing offset, or
// of the last block ending at offset.
func (d *Document) blockBounds(offset int) (int, int) {
	for _, b := range d.blocks {
		if b[0] <= offset && offset < b[1] {
			return b[0], b[1]
		}
	}
	for i := len(d.blocks) - 1; i >= 0; i-- {
		if d.blocks[i][1] == offset && d.blocks[i][0] < offset {
			return d.blocks[i][0], d.blocks[i][1]
		}
	}
	return 0, len(d.text)
}

// locate maps an absolute offset to a node position. A start position is
// taken from the node containing offset; an end position (end == true)
// prefers the node that ends at offset. The end of the text maps to the
// end of the last node.
func (d *Document) locate(offset int, end bool) (Position, bool) {
	n := len(d.spans)
	if n == 0 || offset < 0 {
		return Position{}, false
	}
	var i int
	if end {
		i = sort.Search(n, func(i int) bool { return d.spans[i].End >= offset })
	} else {
		i = sort.Search(n, func(i int) bool { return d.spans[i].End > offset })
	}
	if i < n && d.spans[i].Start <= offset {
		return Position{Node: d.spans[i].Node, Offset: offset - d.spans[i].Start}, true
	}
	last := d.spans[n-1]
	if offset == last.End {
		return Position{Node: last.Node, Offset: last.End - last.Start}, true
	}
	return Position{}, false
}

// Segments splits [start, end) into per-node pieces. It returns nil for an
// empty or out-of-bounds range.
func (d *Document) Segments(start, end int) []Segment {
	if start < 0 || end > len(d.text) || end <= start {
		return nil
	}
	var out []Segment
	i := sort.Search(len(d.spans), func(i int) bool { return d.spans[i].End > start })
	for ; i < len(d.spans) && d.spans[i].Start < end; i++ {
		s := d.spans[i]
		out = append(out, Segment{
			Node: s.Node,
			From: max(start, s.Start) - s.Start,
			To:   min(end, s.End) - s.Start,
		})
	}
	return out
}

// plainMapping aligns the searchable text with the rendered text. Both carry
// the same non-space runes except that the searchable text may open with the
// leading headings the rendered text drops; lead is their count. ok is false
// when there is no searchable text or the two do not align.
func (d *Document) plainMapping() (plain, rendered []int, lead int, ok bool) {
	if d.plain == "" {
		return nil, nil, 0, false
	}
	plain, rendered = nonSpaceRunes(d.plain), nonSpaceRunes(d.text)
	lead = len(plain) - len(rendered)
	if lead < 0 {
		return nil, nil, 0, false
	}
	for i, at := range rendered {
		a, _ := utf8.DecodeRuneInString(d.plain[plain[lead+i]:])
		b, _ := utf8.DecodeRuneInString(d.text[at:])
		if a != b {
			return nil, nil, 0, false
		}
	}
	return plain, rendered, lead, true
}

// fromPlain maps [start, end) of the searchable text onto the rendered text.
// A range that begins inside the leading headings has no rendered position.
func fromPlain(plain, rendered []int, lead, start, end int, text string) (int, int, bool) {
	first := sort.SearchInts(plain, start)
	last := sort.SearchInts(plain, end) - 1
	if first > last || first < lead {
		return 0, 0, false
	}
	s := rendered[first-lead]
	e := rendered[last-lead]
	_, size := utf8.DecodeRuneInString(text[e:])
	return s, e + size, true
}

// nonSpaceRunes returns the byte offset of every non-space rune of s.
func nonSpaceRunes(s string) []int {
	var out []int
	for i, r := range s {
		if !unicode.IsSpace(r) {
			out = append(out, i)
		}
	}
	return out
}
