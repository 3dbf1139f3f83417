// Package services defines the business logic for searching essays and
// reading sections. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"github.com/tbourn/go-reader-backend/internal/anchor"
	"github.com/tbourn/go-reader-backend/internal/content"
	"github.com/tbourn/go-reader-backend/internal/search"
)

var (
	// ErrUnavailable indicates the content source could not be loaded, so
	// nothing can be searched or read. It is the only hard failure.
	ErrUnavailable = search.ErrIndexUnavailable

	// ErrEssayNotFound indicates that no published essay has the requested slug.
	ErrEssayNotFound = content.ErrEssayNotFound

	// ErrSectionNotFound indicates that the essay exists but has no section
	// with the requested number.
	ErrSectionNotFound = content.ErrSectionNotFound

	// ErrEmptySelection is returned when a selection holds fewer than two
	// characters once whitespace is collapsed.
	ErrEmptySelection = anchor.ErrEmptySelection

	// ErrSelectionOutOfRange is returned when selection offsets fall outside
	// the rendered section.
	ErrSelectionOutOfRange = anchor.ErrSelectionOutOfRange
)
