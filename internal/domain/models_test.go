package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(Essay{}).TableName():       "essays",
		(Section{}).TableName():     "sections",
		(SearchEvent{}).TableName(): "search_events",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&Essay{}, &Section{}, &SearchEvent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range []any{&Essay{}, &Section{}, &SearchEvent{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&Essay{}, "ux_essays_slug") {
		t.Fatalf("expected unique index ux_essays_slug on essays")
	}
	if !m.HasIndex(&Section{}, "ux_sections_essay_number") {
		t.Fatalf("expected unique index ux_sections_essay_number on sections")
	}
	if !m.HasIndex(&SearchEvent{}, "idx_search_events_query") {
		t.Fatalf("expected index idx_search_events_query on search_events")
	}

	now := time.Now().UTC()
	e := &Essay{ID: "sand", Slug: "sand", Title: "Sand", SectionOrder: "[1,2]", Published: false, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("insert essay: %v", err)
	}
	var stored Essay
	if err := db.First(&stored, "id = ?", "sand").Error; err != nil {
		t.Fatalf("readback essay: %v", err)
	}
	if stored.Published {
		t.Fatalf("expected draft essay to stay unpublished")
	}

	s1 := &Section{ID: "s1", EssayID: "sand", Number: 1, RawText: "one", CreatedAt: now, UpdatedAt: now}
	s2 := &Section{ID: "s2", EssayID: "sand", Number: 2, RawText: "two", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(s1).Error; err != nil {
		t.Fatalf("insert s1: %v", err)
	}
	if err := db.Create(s2).Error; err != nil {
		t.Fatalf("insert s2: %v", err)
	}

	// Section numbers are unique per essay.
	dup := &Section{ID: "s3", EssayID: "sand", Number: 2, RawText: "dup", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected unique violation for duplicate section number")
	}

	// CASCADE: deleting the essay removes its sections.
	if err := db.Delete(&Essay{}, "id = ?", "sand").Error; err != nil {
		t.Fatalf("delete essay: %v", err)
	}
	var cnt int64
	if err := db.Model(&Section{}).Where("essay_id = ?", "sand").Count(&cnt).Error; err != nil {
		t.Fatalf("count sections after essay delete: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected sections to cascade-delete when essay deleted, got count=%d", cnt)
	}
}

func TestSearchEvent_ModeCheck(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&SearchEvent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	ok := &SearchEvent{ID: "e1", Query: "sand", Mode: "fuzzy", Sort: "relevance", CreatedAt: time.Now().UTC()}
	if err := db.Create(ok).Error; err != nil {
		t.Fatalf("insert event: %v", err)
	}
	bad := &SearchEvent{ID: "e2", Query: "sand", Mode: "regex", Sort: "relevance", CreatedAt: time.Now().UTC()}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected check constraint to reject mode %q", bad.Mode)
	}
}
