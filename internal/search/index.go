// Package search implements full-text search over essay sections: a
// tokenizer, three match modes (contains, exact phrase, fuzzy), snippet
// building, an immutable in-memory index, and an engine that sorts,
// paginates and aggregates hits.
//
//   - No logging in the library (callers decide how/what to log)
//   - Immutable, read-only index after construction (safe for concurrent use)
//   - Deterministic ordering (reading order breaks every tie)
//
// Offsets are byte offsets into a section's searchable text.
package search

import (
	"strconv"
	"strings"

	"github.com/tbourn/go-reader-backend/internal/content"
)

// ScopeAll searches every indexed section.
const ScopeAll = "all"

// Document is one indexed section.
type Document struct {
	ID            string
	EssaySlug     string
	EssayTitle    string
	EssaySummary  string
	EssayOrder    int
	SectionNumber int
	SectionOrder  int
	Label         string
	Title         string
	Subtitle      string
	SearchLabel   string
	WordCount     int
	ReadMinutes   int

	Text

	// Section is the loaded section the document was built from.
	Section *content.Section
}

// EssayInfo summarizes an indexed essay.
type EssayInfo struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	Order       int      `json:"order"`
	Sections    []string `json:"sections"` // document ids in reading order
	TotalWords  int      `json:"total_words"`
	ReadMinutes int      `json:"read_minutes"`
}

// DocumentID returns "<slug>:<number>".
func DocumentID(slug string, number int) string {
	return slug + ":" + strconv.Itoa(number)
}

// ParseDocumentID splits a document id. ok is false for malformed ids.
func ParseDocumentID(id string) (slug string, number int, ok bool) {
	i := strings.LastIndexByte(id, ':')
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return id[:i], n, true
}

// ----------------------------------------------------------------------------
// Index

// Index is the flattened, immutable set of searchable documents in reading
// order (essay order, then section order).
type Index struct {
	docs    []Document
	essays  []EssayInfo
	byID    map[string]int
	byEssay map[string][]int
}

// BuildIndex flattens essays into documents. Unpublished essays are skipped;
// essay order is the position among the published essays.
func BuildIndex(essays []content.Essay) *Index {
	ix := &Index{
		byID:    map[string]int{},
		byEssay: map[string][]int{},
	}
	for ei := range essays {
		e := &essays[ei]
		if !e.Published {
			continue
		}
		info := EssayInfo{Slug: e.Slug, Title: e.Title, Summary: e.Summary, Order: len(ix.essays)}
		for si := range e.Sections {
			s := &e.Sections[si]
			d := Document{
				ID:            DocumentID(e.Slug, s.Number),
				EssaySlug:     e.Slug,
				EssayTitle:    e.Title,
				EssaySummary:  e.Summary,
				EssayOrder:    info.Order,
				SectionNumber: s.Number,
				SectionOrder:  s.Order,
				Label:         s.Label,
				Title:         s.Title,
				Subtitle:      s.Subtitle,
				SearchLabel:   s.SearchLabel,
				WordCount:     s.WordCount,
				ReadMinutes:   s.ReadMinutes,
				Text:          NewText(s.PlainText),
				Section:       s,
			}
			if _, dup := ix.byID[d.ID]; dup {
				continue
			}
			ix.byID[d.ID] = len(ix.docs)
			ix.byEssay[e.Slug] = append(ix.byEssay[e.Slug], len(ix.docs))
			ix.docs = append(ix.docs, d)
			info.Sections = append(info.Sections, d.ID)
			info.TotalWords += d.WordCount
		}
		info.ReadMinutes = content.EstimateReadMinutes(info.TotalWords)
		ix.essays = append(ix.essays, info)
	}
	return ix
}

// Len returns the number of documents.
func (ix *Index) Len() int { return len(ix.docs) }

// Documents returns the documents in reading order. The slice is shared and
// must not be modified.
func (ix *Index) Documents() []Document { return ix.docs }

// Essays returns the indexed essays in order.
func (ix *Index) Essays() []EssayInfo { return ix.essays }

// Document looks up a document by id.
func (ix *Index) Document(id string) (*Document, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return nil, false
	}
	return &ix.docs[i], true
}

// Section looks up a document by essay slug and section number.
func (ix *Index) Section(slug string, number int) (*Document, bool) {
	return ix.Document(DocumentID(slug, number))
}

// Essay looks up an essay by slug.
func (ix *Index) Essay(slug string) (*EssayInfo, bool) {
	for i := range ix.essays {
		if ix.essays[i].Slug == slug {
			return &ix.essays[i], true
		}
	}
	return nil, false
}

// Neighbors returns the previous and next documents of id within its
// essay, either of which may be nil.
func (ix *Index) Neighbors(id string) (prev, next *Document) {
	i, ok := ix.byID[id]
	if !ok {
		return nil, nil
	}
	list := ix.byEssay[ix.docs[i].EssaySlug]
	for k, di := range list {
		if di != i {
			continue
		}
		if k > 0 {
			prev = &ix.docs[list[k-1]]
		}
		if k+1 < len(list) {
			next = &ix.docs[list[k+1]]
		}
	}
	return prev, next
}

// ResolveScope normalizes scope and returns the documents it covers.
// Accepted scopes are "all", an essay slug and a document id; anything else
// resolves to "all".
func (ix *Index) ResolveScope(scope string) (string, []*Document) {
	scope = strings.TrimSpace(scope)
	if idxs, ok := ix.byEssay[scope]; ok {
		return scope, ix.pick(idxs)
	}
	if i, ok := ix.byID[scope]; ok {
		return scope, ix.pick([]int{i})
	}
	all := make([]*Document, len(ix.docs))
	for i := range ix.docs {
		all[i] = &ix.docs[i]
	}
	return ScopeAll, all
}

func (ix *Index) pick(idxs []int) []*Document {
	out := make([]*Document, len(idxs))
	for k, i := range idxs {
		out[k] = &ix.docs[i]
	}
	return out
}
