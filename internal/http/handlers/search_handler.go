// Search HTTP handlers.
//
// This file exposes:
//   - GET /search         (search sections, paginated, with hit links)
//   - GET /search/stats   (analytics summary)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-reader-backend/internal/search"
	"github.com/tbourn/go-reader-backend/internal/services"
)

// Search godoc
// @ID          search
// @Summary     Search essay sections
// @Description Finds every occurrence of q in the published sections. Invalid parameter values fall back to their defaults; an empty q yields an empty result.
// @Description Every hit carries a link that reopens its section on that occurrence.
// @Tags        Search
// @Produce     json
//
// @Param       q          query  string  false "Query text"                           example(sand)
// @Param       mode       query  string  false "Match mode"                           Enums(contains, exact_phrase, fuzzy) default(contains)
// @Param       scope      query  string  false "all, <essay slug> or <slug>:<number>" default(all)
// @Param       case       query  bool    false "Case-sensitive matching"              default(false)
// @Param       sort       query  string  false "Hit order"                            Enums(reading_order, relevance) default(reading_order)
// @Param       page       query  int     false "Page number"                          minimum(1) default(1)
// @Param       page_size  query  int     false "Hits per page"                        Enums(25, 50, 100) default(50)
//
// @Success     200  {object}  services.SearchResponse
// @Failure     503  {object}  handlers.ErrorResponse  "Content unavailable"
// @Router      /search [get]
func (h *Handlers) Search(c *gin.Context) {
	q := search.ParseQuery(c.Request.URL.Query())
	res, err := h.searchSvc.Search(c.Request.Context(), q)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, h.searchSvc.Respond(res))
}

// SearchStats godoc
// @ID          searchStats
// @Summary     Search analytics
// @Description Totals, zero-hit count, per-mode counts and top queries of recorded searches, plus the size of the index.
// @Tags        Search
// @Produce     json
//
// @Success     200  {object}  services.StatsView
// @Failure     503  {object}  handlers.ErrorResponse  "Content unavailable"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /search/stats [get]
func (h *Handlers) SearchStats(c *gin.Context) {
	st, err := h.searchSvc.Stats(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrUnavailable):
		failErr(c, err)
		return
	case err != nil:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeStatsFailed, "could not summarize searches")
		return
	}
	ok(c, http.StatusOK, st)
}
