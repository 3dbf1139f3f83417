package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/go-reader-backend/internal/content"
	"github.com/tbourn/go-reader-backend/internal/domain"
)

// ContentSource serves imported essays from the database. It implements
// content.Source, so the search engine can index either files or SQLite.
type ContentSource struct {
	DB *gorm.DB
}

// NewContentSource returns a ContentSource reading from db.
func NewContentSource(db *gorm.DB) *ContentSource {
	return &ContentSource{DB: db}
}

// Load returns every stored essay in import order. Published essays carry
// their sections in reading order; a section listed in the essay's order
// but missing from the table is an error, as a missing file would be.
func (s *ContentSource) Load(ctx context.Context) ([]content.Essay, error) {
	var rows []domain.Essay
	err := s.DB.WithContext(ctx).
		Preload("Sections", func(tx *gorm.DB) *gorm.DB { return tx.Order("number ASC") }).
		Order("position ASC").Order("slug ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no essays imported", content.ErrNoRegistry)
	}

	out := make([]content.Essay, 0, len(rows))
	for _, row := range rows {
		e, err := toContentEssay(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func toContentEssay(row domain.Essay) (content.Essay, error) {
	e := content.Essay{
		ID:          row.ID,
		Slug:        row.Slug,
		Title:       row.Title,
		Summary:     row.Summary,
		Published:   row.Published,
		SectionMeta: map[int]content.SectionMeta{},
	}
	if err := json.Unmarshal([]byte(row.SectionOrder), &e.SectionOrder); err != nil {
		return content.Essay{}, fmt.Errorf("essay %s: decode section order: %w", row.Slug, err)
	}

	raw := make(map[int]string, len(row.Sections))
	for _, s := range row.Sections {
		raw[s.Number] = s.RawText
		if s.Title != "" || s.Subtitle != "" {
			e.SectionMeta[s.Number] = content.SectionMeta{Title: s.Title, Subtitle: s.Subtitle}
		}
	}
	if len(e.SectionOrder) == 0 {
		for _, s := range row.Sections {
			e.SectionOrder = append(e.SectionOrder, s.Number)
		}
	}
	if !e.Published {
		return e, nil
	}

	e.Sections = make([]content.Section, 0, len(e.SectionOrder))
	for order, number := range e.SectionOrder {
		text, ok := raw[number]
		if !ok {
			return content.Essay{}, fmt.Errorf("load %s section %d: %w", row.Slug, number, content.ErrSectionNotFound)
		}
		e.Sections = append(e.Sections, content.NewSection(&e, number, order, text))
	}
	return e, nil
}
