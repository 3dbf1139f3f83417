package cmd

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/go-reader-backend/internal/anchor"
	"github.com/tbourn/go-reader-backend/internal/config"
	"github.com/tbourn/go-reader-backend/internal/content"
	"github.com/tbourn/go-reader-backend/internal/repo"
	"github.com/tbourn/go-reader-backend/internal/search"
	"github.com/tbourn/go-reader-backend/internal/services"
)

// needsDB reports whether c reads content from or records searches to the
// database.
func needsDB(c config.Config) bool {
	return c.ContentSource == config.ContentSQLite || c.RecordSearches
}

// openDB opens and migrates the configured SQLite database.
func openDB(c config.Config) (*gorm.DB, error) {
	db, err := repo.OpenSQLite(c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.DBPath, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate %s: %w", c.DBPath, err)
	}
	return db, nil
}

// maybeOpenDB opens the database only when c needs it.
func maybeOpenDB(c config.Config) (*gorm.DB, error) {
	if !needsDB(c) {
		return nil, nil
	}
	return openDB(c)
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// contentSource returns the configured content source.
func contentSource(c config.Config, db *gorm.DB) content.Source {
	if c.ContentSource == config.ContentSQLite {
		return repo.NewContentSource(db)
	}
	return content.NewFileSource(c.ContentDir)
}

// newServices builds the services the commands share over one engine.
func newServices(c config.Config, db *gorm.DB) (*services.SearchService, *services.ReaderService) {
	engine := search.NewEngine(contentSource(c, db))
	searchSvc := &services.SearchService{
		Engine:     engine,
		DB:         db,
		Record:     c.RecordSearches,
		ShareBase:  c.ShareBaseURL,
		TopQueries: c.StatsTopQueries,
	}
	readerSvc := &services.ReaderService{
		Engine:    engine,
		Resolver:  &anchor.Resolver{QueryCap: c.QueryHighlightCap},
		ShareBase: c.ShareBaseURL,
	}
	return searchSvc, readerSvc
}
