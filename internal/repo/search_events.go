package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-reader-backend/internal/domain"
)

// RecordSearchEvent inserts ev, assigning an ID and a UTC CreatedAt when
// they are unset.
func RecordSearchEvent(ctx context.Context, db *gorm.DB, ev *domain.SearchEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(ev).Error
}

// ListSearchEvents returns the most recent events, newest first.
func ListSearchEvents(ctx context.Context, db *gorm.DB, limit int) ([]domain.SearchEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.SearchEvent
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
