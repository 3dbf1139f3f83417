package search

// Page is one window of a result list. Start and End are 1-based and
// inclusive; both are 0 when there are no items.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	Start      int `json:"start"`
	End        int `json:"end"`
}

// Paginate slices items into the requested page. The page is clamped into
// [1, TotalPages] and TotalPages is at least 1.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	pages := max(1, (total+pageSize-1)/pageSize)
	page = min(max(page, 1), pages)

	from := (page - 1) * pageSize
	to := min(from+pageSize, total)
	p := Page[T]{
		Items:      items[from:to],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: pages,
	}
	if total > 0 {
		p.Start = from + 1
		p.End = to
	}
	return p
}
