package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-reader-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, query, mode string, hits int, at time.Time) {
	t.Helper()
	ev := &domain.SearchEvent{Query: query, Mode: mode, Sort: "reading_order", TotalHits: hits, CreatedAt: at}
	if err := RecordSearchEvent(context.Background(), db, ev); err != nil {
		t.Fatalf("seed %q: %v", query, err)
	}
}

func TestSearchEventStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	if _, err := SearchEventStats(context.Background(), db, 5); err == nil {
		t.Fatalf("expected error due to missing search_events table")
	}
}

func TestSearchEventStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.SearchEvent{})
	st, err := SearchEventStats(context.Background(), db, 5)
	if err != nil {
		t.Fatalf("SearchEventStats error: %v", err)
	}
	if st.TotalSearches != 0 || st.LastSearchAt != nil || len(st.TopQueries) != 0 {
		t.Fatalf("expected empty stats, got %+v", st)
	}
}

func TestSearchEventStats_Success(t *testing.T) {
	db := newTestDB(t, &domain.SearchEvent{})

	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) // newest
	t3 := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	seedEvent(t, db, "sand", "contains", 3, t1)
	seedEvent(t, db, "Sand", "contains", 3, t2)
	seedEvent(t, db, "glass", "fuzzy", 0, t3)
	seedEvent(t, db, "dune", "exact_phrase", 1, t3)

	st, err := SearchEventStats(context.Background(), db, 2)
	if err != nil {
		t.Fatalf("SearchEventStats error: %v", err)
	}
	if st.TotalSearches != 4 {
		t.Fatalf("expected 4 searches, got %d", st.TotalSearches)
	}
	if st.ZeroHitSearches != 1 {
		t.Fatalf("expected 1 zero-hit search, got %d", st.ZeroHitSearches)
	}
	if st.ByMode["contains"] != 2 || st.ByMode["fuzzy"] != 1 || st.ByMode["exact_phrase"] != 1 {
		t.Fatalf("unexpected by-mode counts: %v", st.ByMode)
	}
	want := []QueryCount{{Query: "sand", Count: 2}, {Query: "dune", Count: 1}}
	if len(st.TopQueries) != len(want) {
		t.Fatalf("expected %d top queries, got %+v", len(want), st.TopQueries)
	}
	for i := range want {
		if st.TopQueries[i] != want[i] {
			t.Fatalf("top[%d] = %+v; want %+v", i, st.TopQueries[i], want[i])
		}
	}
	if st.LastSearchAt == nil || !st.LastSearchAt.Equal(t2) {
		t.Fatalf("expected LastSearchAt %v, got %v", t2, st.LastSearchAt)
	}
}

// Force the last query (SELECT created_at ...) to fail by renaming the column.
func TestSearchEventStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.SearchEvent{})
	seedEvent(t, db, "x", "contains", 1, time.Now().UTC())

	if err := db.Exec(`ALTER TABLE search_events RENAME COLUMN created_at TO created_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}
	if _, err := SearchEventStats(context.Background(), db, 5); err == nil {
		t.Fatalf("expected error from latest-created select after column rename")
	}
}

func TestRecordSearchEvent_DefaultsAndList(t *testing.T) {
	db := newTestDB(t, &domain.SearchEvent{})

	ev := &domain.SearchEvent{Query: "sand", Mode: "contains", Sort: "relevance"}
	if err := RecordSearchEvent(context.Background(), db, ev); err != nil {
		t.Fatalf("RecordSearchEvent: %v", err)
	}
	if ev.ID == "" || ev.CreatedAt.IsZero() {
		t.Fatalf("expected ID and CreatedAt to be assigned, got %+v", ev)
	}
	seedEvent(t, db, "later", "contains", 0, ev.CreatedAt.Add(time.Minute))

	got, err := ListSearchEvents(context.Background(), db, 0)
	if err != nil {
		t.Fatalf("ListSearchEvents: %v", err)
	}
	if len(got) != 2 || got[0].Query != "later" || got[1].Scope != "all" {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestRecordSearchEvent_RejectsUnknownMode(t *testing.T) {
	db := newTestDB(t, &domain.SearchEvent{})
	ev := &domain.SearchEvent{Query: "sand", Mode: "regex", Sort: "relevance"}
	if err := RecordSearchEvent(context.Background(), db, ev); err == nil {
		t.Fatalf("expected check constraint failure")
	}
}
