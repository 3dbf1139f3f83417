// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and form a stable, machine-readable
// taxonomy next to the human-readable message. Every error response carries
// an HTTP status and one of these codes.
//
// Only an unavailable content source is a hard failure (503). Malformed
// search and anchor parameters are normalized, never rejected; an anchor
// that does not resolve still serves its section.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "section_not_found",
//	  "message": "section not found"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeTimeout          = "timeout"

	// Domain-specific:
	ErrCodeSearchUnavailable = "search_unavailable"
	ErrCodeEssayNotFound     = "essay_not_found"
	ErrCodeSectionNotFound   = "section_not_found"
	ErrCodeEmptySelection    = "empty_selection"
	ErrCodeSelectionRange    = "selection_out_of_range"
	ErrCodeStatsFailed       = "stats_failed"
)
