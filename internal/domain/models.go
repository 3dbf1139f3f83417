// Package domain defines the persistence models for essays, their sections,
// and recorded searches. These types are mapped with GORM and back the
// SQLite content source and search analytics.
package domain

import "time"

// Essay is a published (or draft) essay imported from the content registry.
//
// Fields:
//   - ID: registry identifier (defaults to the slug).
//   - Slug: URL-safe key; unique.
//   - Title / Summary: display metadata.
//   - Position: order of the essay in the registry.
//   - SectionOrder: JSON-encoded list of section numbers in reading order.
//   - Published: unpublished essays are stored but never indexed.
//   - Sections: the essay's section texts.
type Essay struct {
	ID           string    `json:"id"            gorm:"type:varchar(128);primaryKey"`
	Slug         string    `json:"slug"          gorm:"type:varchar(128);not null;uniqueIndex:ux_essays_slug"`
	Title        string    `json:"title"         gorm:"type:varchar(255);not null"`
	Summary      string    `json:"summary"       gorm:"type:text;not null;default:''"`
	Position     int       `json:"position"      gorm:"not null;index:idx_essays_position"`
	SectionOrder string    `json:"section_order" gorm:"type:text;not null;default:'[]'"`
	Published    bool      `json:"published"     gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Sections []Section `json:"-" gorm:"foreignKey:EssayID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Essay.
func (Essay) TableName() string { return "essays" }

// Section is the raw text of one numbered section of an essay, with its
// optional heading metadata. A section number is unique within its essay.
type Section struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	EssayID   string    `json:"essay_id" gorm:"type:varchar(128);not null;uniqueIndex:ux_sections_essay_number,priority:1"`
	Number    int       `json:"number"   gorm:"not null;uniqueIndex:ux_sections_essay_number,priority:2;check:number > 0"`
	Title     string    `json:"title"    gorm:"type:varchar(255);not null;default:''"`
	Subtitle  string    `json:"subtitle" gorm:"type:varchar(255);not null;default:''"`
	RawText   string    `json:"-"        gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Section.
func (Section) TableName() string { return "sections" }

// SearchEvent records one executed search for analytics.
//
// Fields:
//   - Query: the trimmed query text (empty queries are not recorded).
//   - Mode / Scope / Sort / CaseSensitive: normalized query options.
//   - TotalHits / TotalSections / TotalEssays: result aggregates.
//   - DurationMS: wall time of the search in milliseconds.
//   - Source: "http", "live" or "cli".
type SearchEvent struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	Query         string    `json:"query"          gorm:"type:varchar(512);not null;index:idx_search_events_query"`
	Mode          string    `json:"mode"           gorm:"type:varchar(16);not null;check:mode IN ('contains','exact_phrase','fuzzy')"`
	Scope         string    `json:"scope"          gorm:"type:varchar(160);not null;default:'all'"`
	Sort          string    `json:"sort"           gorm:"type:varchar(16);not null"`
	CaseSensitive bool      `json:"case_sensitive" gorm:"not null;default:false"`
	TotalHits     int       `json:"total_hits"     gorm:"not null"`
	TotalSections int       `json:"total_sections" gorm:"not null"`
	TotalEssays   int       `json:"total_essays"   gorm:"not null"`
	DurationMS    float64   `json:"duration_ms"    gorm:"not null"`
	Source        string    `json:"source"         gorm:"type:varchar(16);not null;default:'http'"`
	CreatedAt     time.Time `json:"created_at"     gorm:"index:idx_search_events_created"`
}

// TableName returns the database table name for SearchEvent.
func (SearchEvent) TableName() string { return "search_events" }
