package search

import "sort"

// Hit is an occurrence located in a document.
type Hit struct {
	DocumentID         string `json:"document_id"`
	EssaySlug          string `json:"essay_slug"`
	EssayTitle         string `json:"essay_title"`
	EssayOrder         int    `json:"essay_order"`
	SectionNumber      int    `json:"section_number"`
	SectionOrder       int    `json:"section_order"`
	SectionTitle       string `json:"section_title"`
	SectionSearchLabel string `json:"section_search_label"`

	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
	MatchedText string `json:"matched_text"`
	Score       int    `json:"score"`

	// Occurrence is the 1-based position of the hit among the hits of its
	// document, in discovery order. It does not change with the sort.
	Occurrence int    `json:"occurrence"`
	Snippet    string `json:"snippet"`
	// SnippetHTML is Snippet escaped for HTML with MatchedText marked.
	SnippetHTML string `json:"snippet_html"`
}

// SectionCount is the number of hits in one section.
type SectionCount struct {
	DocumentID         string `json:"document_id"`
	EssaySlug          string `json:"essay_slug"`
	EssayTitle         string `json:"essay_title"`
	EssayOrder         int    `json:"essay_order"`
	SectionNumber      int    `json:"section_number"`
	SectionOrder       int    `json:"section_order"`
	SectionSearchLabel string `json:"section_search_label"`
	Count              int    `json:"count"`
}

// EssayCount is the number of hits in one essay.
type EssayCount struct {
	EssaySlug  string `json:"essay_slug"`
	EssayTitle string `json:"essay_title"`
	EssayOrder int    `json:"essay_order"`
	Count      int    `json:"count"`
}

// Result is the outcome of a search.
type Result struct {
	Query         Query          `json:"query"`
	Hits          []Hit          `json:"-"`
	Page          Page[Hit]      `json:"page"`
	SectionCounts []SectionCount `json:"section_counts"`
	EssayCounts   []EssayCount   `json:"essay_counts"`
	TotalHits     int            `json:"total_hits"`
	TotalSections int            `json:"total_sections"`
	TotalEssays   int            `json:"total_essays"`
}

func readingLess(a, b *Hit) bool {
	if a.EssayOrder != b.EssayOrder {
		return a.EssayOrder < b.EssayOrder
	}
	if a.SectionOrder != b.SectionOrder {
		return a.SectionOrder < b.SectionOrder
	}
	return a.Offset < b.Offset
}

func sortHits(hits []Hit, by Sort) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := &hits[i], &hits[j]
		if by == SortRelevance && a.Score != b.Score {
			return a.Score > b.Score
		}
		return readingLess(a, b)
	})
}

// aggregate counts hits per section and per essay, both in reading order.
func aggregate(hits []Hit) ([]SectionCount, []EssayCount) {
	sections := []SectionCount{}
	essays := []EssayCount{}
	secIdx := map[string]int{}
	essIdx := map[string]int{}
	for i := range hits {
		h := &hits[i]
		if k, ok := secIdx[h.DocumentID]; ok {
			sections[k].Count++
		} else {
			secIdx[h.DocumentID] = len(sections)
			sections = append(sections, SectionCount{
				DocumentID:         h.DocumentID,
				EssaySlug:          h.EssaySlug,
				EssayTitle:         h.EssayTitle,
				EssayOrder:         h.EssayOrder,
				SectionNumber:      h.SectionNumber,
				SectionOrder:       h.SectionOrder,
				SectionSearchLabel: h.SectionSearchLabel,
				Count:              1,
			})
		}
		if k, ok := essIdx[h.EssaySlug]; ok {
			essays[k].Count++
		} else {
			essIdx[h.EssaySlug] = len(essays)
			essays = append(essays, EssayCount{
				EssaySlug:  h.EssaySlug,
				EssayTitle: h.EssayTitle,
				EssayOrder: h.EssayOrder,
				Count:      1,
			})
		}
	}
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].EssayOrder != sections[j].EssayOrder {
			return sections[i].EssayOrder < sections[j].EssayOrder
		}
		return sections[i].SectionOrder < sections[j].SectionOrder
	})
	sort.SliceStable(essays, func(i, j int) bool { return essays[i].EssayOrder < essays[j].EssayOrder })
	return sections, essays
}
