package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-reader-backend/internal/content"
	"github.com/tbourn/go-reader-backend/internal/domain"
)

// ImportResult summarizes an ImportEssays run.
type ImportResult struct {
	Essays   int `json:"essays"`
	Sections int `json:"sections"`
	Drafts   int `json:"drafts"`
}

// ImportEssays replaces the stored content with essays in a single
// transaction. Essays keep their slice order; drafts are stored without
// section text.
func ImportEssays(ctx context.Context, db *gorm.DB, essays []content.Essay) (ImportResult, error) {
	var res ImportResult
	now := time.Now().UTC()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Section{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&domain.Essay{}).Error; err != nil {
			return err
		}

		for pos, e := range essays {
			order, err := json.Marshal(nonNil(e.SectionOrder))
			if err != nil {
				return err
			}
			row := &domain.Essay{
				ID:           e.ID,
				Slug:         e.Slug,
				Title:        e.Title,
				Summary:      e.Summary,
				Position:     pos,
				SectionOrder: string(order),
				Published:    e.Published,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if row.ID == "" {
				row.ID = e.Slug
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			res.Essays++
			if !e.Published {
				res.Drafts++
			}

			if len(e.Sections) == 0 {
				continue
			}
			sections := make([]domain.Section, 0, len(e.Sections))
			for _, s := range e.Sections {
				meta := e.SectionMeta[s.Number]
				sections = append(sections, domain.Section{
					ID:        uuid.NewString(),
					EssayID:   row.ID,
					Number:    s.Number,
					Title:     meta.Title,
					Subtitle:  meta.Subtitle,
					RawText:   s.RawText,
					CreatedAt: now,
					UpdatedAt: now,
				})
			}
			if err := tx.Create(&sections).Error; err != nil {
				return err
			}
			res.Sections += len(sections)
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

func nonNil(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	return xs
}
