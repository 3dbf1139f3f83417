// Package content loads essays and their sections and derives the text views
// the search and anchor packages operate on.
//
// A section has two text views:
//   - PlainText: the searchable view (heading markers and emphasis markers
//     stripped, whitespace collapsed). Search offsets point into it.
//   - ContentBlocks: the rendered view (leading headings removed). Anchor
//     offsets point into the concatenation of its inline runs.
//
// No logging in this package; callers decide what to report.
package content

import (
	"context"
	"errors"
)

var (
	ErrEssayNotFound   = errors.New("essay not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrNoRegistry      = errors.New("essay registry not found")
)

// BlockKind identifies a rendered block.
type BlockKind string

const (
	BlockParagraph BlockKind = "p"
	BlockHeading   BlockKind = "h"
	BlockRule      BlockKind = "hr"
)

// Inline is a run of text inside a block. Emphasis marks an *em* run.
type Inline struct {
	Text     string `json:"text"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Block is one parsed unit of a section: a paragraph, a heading (Level 1-3)
// or a horizontal rule (no inlines).
type Block struct {
	Kind    BlockKind `json:"kind"`
	Level   int       `json:"level,omitempty"`
	Inlines []Inline  `json:"inlines,omitempty"`
}

// Text returns the concatenated inline text of the block.
func (b Block) Text() string {
	switch len(b.Inlines) {
	case 0:
		return ""
	case 1:
		return b.Inlines[0].Text
	}
	n := 0
	for _, in := range b.Inlines {
		n += len(in.Text)
	}
	buf := make([]byte, 0, n)
	for _, in := range b.Inlines {
		buf = append(buf, in.Text...)
	}
	return string(buf)
}

// SectionMeta carries optional registry titles for a section.
type SectionMeta struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
}

// Essay is a registry entry plus its loaded sections in reading order.
type Essay struct {
	ID           string
	Slug         string
	Title        string
	Summary      string
	SourceDir    string
	SectionOrder []int
	SectionMeta  map[int]SectionMeta
	Published    bool

	Sections []Section
}

// Section is one loaded section of an essay.
type Section struct {
	Number      int
	Order       int
	Label       string
	Title       string
	Subtitle    string
	SearchLabel string

	RawText       string
	Blocks        []Block
	ContentBlocks []Block
	PlainText     string
	WordCount     int
	ReadMinutes   int
}

// Section returns the section with the given number.
func (e *Essay) Section(number int) (*Section, bool) {
	for i := range e.Sections {
		if e.Sections[i].Number == number {
			return &e.Sections[i], true
		}
	}
	return nil, false
}

// TotalWords sums the word counts of the loaded sections.
func (e *Essay) TotalWords() int {
	total := 0
	for _, s := range e.Sections {
		total += s.WordCount
	}
	return total
}

// Source yields every essay with its sections loaded, in registry order.
type Source interface {
	Load(ctx context.Context) ([]Essay, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Essay, error)

func (f SourceFunc) Load(ctx context.Context) ([]Essay, error) { return f(ctx) }

// NewSection derives every view of a section from its raw text.
func NewSection(e *Essay, number, order int, raw string) Section {
	blocks := ParseBlocks(raw)
	plain := SearchableText(raw)
	words := CountWords(plain)
	d := Display(e, number)
	return Section{
		Number:        number,
		Order:         order,
		Label:         d.Label,
		Title:         d.Title,
		Subtitle:      d.Subtitle,
		SearchLabel:   d.SearchLabel,
		RawText:       raw,
		Blocks:        blocks,
		ContentBlocks: RemoveLeadingHeadings(blocks),
		PlainText:     plain,
		WordCount:     words,
		ReadMinutes:   EstimateReadMinutes(words),
	}
}
