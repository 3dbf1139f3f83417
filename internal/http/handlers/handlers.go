// Package handlers exposes the reader's REST and websocket endpoints.
//
// Handlers are transport-thin: they parse parameters, call the application
// services, and translate results and sentinel errors into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-reader-backend/internal/anchor"
	"github.com/tbourn/go-reader-backend/internal/http/middleware"
	"github.com/tbourn/go-reader-backend/internal/observability"
	"github.com/tbourn/go-reader-backend/internal/search"
	"github.com/tbourn/go-reader-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// SearchService runs searches and summarizes recorded ones.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation.
type SearchService interface {
	// Search runs a query on behalf of an HTTP caller.
	Search(ctx context.Context, q search.Query) (*search.Result, error)
	// Respond links every hit of a result page.
	Respond(res *search.Result) *services.SearchResponse
	// Live returns the searcher used by live sessions.
	Live() search.Searcher
	// Stats summarizes recorded searches and the index size.
	Stats(ctx context.Context) (*services.StatsView, error)
}

// ReaderService serves essays and sections and creates share links.
type ReaderService interface {
	Essays(ctx context.Context) ([]services.EssaySummary, error)
	Section(ctx context.Context, slug string, number int, params url.Values) (*services.SectionView, error)
	CreateAnchor(ctx context.Context, slug string, number int, sel anchor.Selection) (*services.ShareLink, error)
}

//
// Handler wiring
//

// LiveOptions configures the live-search websocket.
type LiveOptions struct {
	// Debounce is the quiet period before a typed query runs;
	// search.DefaultDebounce when zero.
	Debounce time.Duration
	// Limiter, when set, is charged one token per executed search, so
	// debounced keystrokes are free.
	Limiter *middleware.RateLimiter
	// Metrics, when set, tracks open sessions.
	Metrics *observability.Metrics
	// CheckOrigin overrides the websocket origin check.
	CheckOrigin func(r *http.Request) bool
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	searchSvc SearchService
	readerSvc ReaderService
	live      LiveOptions
}

// New constructs Handlers bound to the given services.
func New(searchSvc SearchService, readerSvc ReaderService, live LiveOptions) *Handlers {
	return &Handlers{searchSvc: searchSvc, readerSvc: readerSvc, live: live}
}

//
// Helpers
//

// sectionParams reads :slug and :number. A malformed number is reported as
// a missing section.
func sectionParams(c *gin.Context) (slug string, number int, valid bool) {
	slug = strings.TrimSpace(c.Param("slug"))
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n <= 0 || slug == "" {
		return slug, 0, false
	}
	return slug, n, true
}

// failErr maps service errors onto the error envelope.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnavailable):
		_ = c.Error(err)
		fail(c, http.StatusServiceUnavailable, ErrCodeSearchUnavailable, "content is unavailable")
	case errors.Is(err, services.ErrEssayNotFound):
		fail(c, http.StatusNotFound, ErrCodeEssayNotFound, "essay not found")
	case errors.Is(err, services.ErrSectionNotFound):
		fail(c, http.StatusNotFound, ErrCodeSectionNotFound, "section not found")
	case errors.Is(err, services.ErrEmptySelection):
		fail(c, http.StatusUnprocessableEntity, ErrCodeEmptySelection, "selection must contain at least two characters")
	case errors.Is(err, services.ErrSelectionOutOfRange):
		fail(c, http.StatusUnprocessableEntity, ErrCodeSelectionRange, "selection is outside the section")
	case errors.Is(err, context.DeadlineExceeded):
		fail(c, http.StatusGatewayTimeout, ErrCodeTimeout, "request timed out")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
