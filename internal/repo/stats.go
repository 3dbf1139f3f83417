// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides aggregate queries over recorded
// searches for the analytics endpoint. Each function is context-aware and
// safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-reader-backend/internal/domain"
)

// QueryCount is a query text with the number of times it was searched.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// SearchStats aggregates recorded search events.
//
// Fields:
//   - TotalSearches:   number of recorded events
//   - ZeroHitSearches: events whose search found nothing
//   - ByMode:          event count per search mode
//   - TopQueries:      most frequent queries, case-folded
//   - LastSearchAt:    newest event time, or nil if none
type SearchStats struct {
	TotalSearches   int64            `json:"total_searches"`
	ZeroHitSearches int64            `json:"zero_hit_searches"`
	ByMode          map[string]int64 `json:"by_mode"`
	TopQueries      []QueryCount     `json:"top_queries"`
	LastSearchAt    *time.Time       `json:"last_search_at,omitempty"`
}

// SearchEventStats computes SearchStats, listing at most top queries.
// When no searches were recorded, the counts are zero and LastSearchAt is nil.
func SearchEventStats(ctx context.Context, db *gorm.DB, top int) (*SearchStats, error) {
	if top <= 0 {
		top = 10
	}
	base := func() *gorm.DB { return db.WithContext(ctx).Model(&domain.SearchEvent{}) }
	st := &SearchStats{ByMode: map[string]int64{}, TopQueries: []QueryCount{}}

	// Count
	if err := base().Count(&st.TotalSearches).Error; err != nil {
		return nil, err
	}
	if st.TotalSearches == 0 {
		return st, nil
	}
	if err := base().Where("total_hits = 0").Count(&st.ZeroHitSearches).Error; err != nil {
		return nil, err
	}

	var modes []struct {
		Mode  string
		Count int64
	}
	if err := base().Select("mode, COUNT(*) AS count").Group("mode").Scan(&modes).Error; err != nil {
		return nil, err
	}
	for _, m := range modes {
		st.ByMode[m.Mode] = m.Count
	}

	if err := base().
		Select("LOWER(query) AS query, COUNT(*) AS count").
		Group("LOWER(query)").
		Order("count DESC").Order("query ASC").
		Limit(top).
		Scan(&st.TopQueries).Error; err != nil {
		return nil, err
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err := base().Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return nil, err
	}
	st.LastSearchAt = &row.CreatedAt
	return st, nil
}
