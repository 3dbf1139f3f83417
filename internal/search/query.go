package search

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/tbourn/go-reader-backend/internal/utils"
)

// Sort selects the hit order.
type Sort string

const (
	SortReadingOrder Sort = "reading_order"
	SortRelevance    Sort = "relevance"
)

// ParseSort maps s to a Sort, defaulting to SortReadingOrder.
func ParseSort(s string) Sort {
	if Sort(strings.TrimSpace(s)) == SortRelevance {
		return SortRelevance
	}
	return SortReadingOrder
}

// Page sizes a client may request; DefaultPageSize applies otherwise.
var PageSizes = []int{25, 50, 100}

const DefaultPageSize = 50

// Query parameter names shared by search links and the HTTP API.
const (
	ParamQuery    = "q"
	ParamScope    = "scope"
	ParamMode     = "mode"
	ParamSort     = "sort"
	ParamCase     = "case"
	ParamPage     = "page"
	ParamPageSize = "page_size"
)

// Query is a search request.
type Query struct {
	Text          string `json:"q"`
	Mode          Mode   `json:"mode"`
	Scope         string `json:"scope"`
	CaseSensitive bool   `json:"case_sensitive"`
	Sort          Sort   `json:"sort"`
	Page          int    `json:"page"`
	PageSize      int    `json:"page_size"`
}

// Normalize coerces every field into its valid domain. It never fails.
// Scope is only trimmed here; the index resolves unknown scopes to "all".
func (q Query) Normalize() Query {
	q.Text = strings.TrimSpace(q.Text)
	q.Mode = ParseMode(string(q.Mode))
	q.Sort = ParseSort(string(q.Sort))
	q.Scope = strings.TrimSpace(q.Scope)
	if q.Scope == "" {
		q.Scope = ScopeAll
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if !slices.Contains(PageSizes, q.PageSize) {
		q.PageSize = DefaultPageSize
	}
	return q
}

// ParseQuery reads a Query from URL parameters and normalizes it.
func ParseQuery(v url.Values) Query {
	page := utils.AtoiDefault(v.Get(ParamPage), 0)
	size := utils.AtoiDefault(v.Get(ParamPageSize), 0)
	return Query{
		Text:          v.Get(ParamQuery),
		Mode:          Mode(v.Get(ParamMode)),
		Scope:         v.Get(ParamScope),
		CaseSensitive: ParseBool(v.Get(ParamCase)),
		Sort:          Sort(v.Get(ParamSort)),
		Page:          page,
		PageSize:      size,
	}.Normalize()
}

// Values encodes q for a search link, omitting fields at their defaults.
func (q Query) Values() url.Values {
	q = q.Normalize()
	v := url.Values{}
	if q.Text != "" {
		v.Set(ParamQuery, q.Text)
	}
	if q.Scope != ScopeAll {
		v.Set(ParamScope, q.Scope)
	}
	if q.Mode != ModeContains {
		v.Set(ParamMode, string(q.Mode))
	}
	if q.Sort != SortReadingOrder {
		v.Set(ParamSort, string(q.Sort))
	}
	if q.CaseSensitive {
		v.Set(ParamCase, "1")
	}
	if q.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.PageSize != DefaultPageSize {
		v.Set(ParamPageSize, strconv.Itoa(q.PageSize))
	}
	return v
}

// ParseBool accepts exactly "1" and "true" as true.
func ParseBool(s string) bool {
	return s == "1" || s == "true"
}
