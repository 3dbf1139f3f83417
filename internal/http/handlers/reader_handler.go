// Reader HTTP handlers.
//
// This file exposes:
//   - GET  /essays                                   (essay list)
//   - GET  /essays/{slug}/sections/{number}          (rendered section + anchor)
//   - POST /essays/{slug}/sections/{number}/anchors  (share link for a selection)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-reader-backend/internal/anchor"
	"github.com/tbourn/go-reader-backend/internal/http/middleware"
	"github.com/tbourn/go-reader-backend/internal/services"
)

//
// DTOs
//

// ListEssaysResponse wraps the published essays.
type ListEssaysResponse struct {
	Essays []services.EssaySummary `json:"essays"`
}

// CreateAnchorRequest is a reader selection. Offsets are byte offsets into
// the rendered section text (see SectionView.text_length); when End is not
// greater than Start only Text is used.
type CreateAnchorRequest struct {
	Start int    `json:"start" example:"25"`
	End   int    `json:"end" example:"50"`
	Text  string `json:"text" example:"Glass is sand made clear."`
}

//
// Handlers
//

// ListEssays godoc
// @ID          listEssays
// @Summary     List essays
// @Description Published essays in registry order with their sections in reading order.
// @Tags        Reader
// @Produce     json
//
// @Success     200  {object}  handlers.ListEssaysResponse
// @Failure     503  {object}  handlers.ErrorResponse  "Content unavailable"
// @Router      /essays [get]
func (h *Handlers) ListEssays(c *gin.Context) {
	essays, err := h.readerSvc.Essays(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListEssaysResponse{Essays: essays})
}

// GetSection godoc
// @ID          getSection
// @Summary     Read a section
// @Description Renders the section and resolves the anchor carried by the query string, if any. Anchors are tried in precedence order p, r, hl, q+occ, q; malformed values are skipped.
// @Description An anchor that does not resolve still returns the section with anchor.resolved=false.
// @Tags        Reader
// @Produce     json
//
// @Param       slug    path   string  true  "Essay slug"                       example(etching-god-into-sand)
// @Param       number  path   int     true  "Section number"                   minimum(1)
// @Param       p       query  string  false "Paragraph range, <n> or <a>-<b>"  example(2-3)
// @Param       r       query  string  false "Base-36 character range <s>-<e>"  example(a-1k)
// @Param       hl      query  string  false "Selected text"
// @Param       hlp     query  string  false "Text before the selection"
// @Param       hls     query  string  false "Text after the selection"
// @Param       q       query  string  false "Search query to highlight"
// @Param       occ     query  int     false "1-based occurrence of q"          minimum(1)
// @Param       mode    query  string  false "Match mode for q"                 Enums(contains, exact_phrase, fuzzy)
// @Param       case    query  bool    false "Case-sensitive q"
//
// @Success     200  {object}  services.SectionView
// @Failure     404  {object}  handlers.ErrorResponse  "Essay or section not found"
// @Failure     503  {object}  handlers.ErrorResponse  "Content unavailable"
// @Router      /essays/{slug}/sections/{number} [get]
func (h *Handlers) GetSection(c *gin.Context) {
	slug, number, valid := sectionParams(c)
	if !valid {
		fail(c, http.StatusNotFound, ErrCodeSectionNotFound, "section not found")
		return
	}
	view, err := h.readerSvc.Section(c.Request.Context(), slug, number, c.Request.URL.Query())
	if err != nil {
		failErr(c, err)
		return
	}
	if view.Anchor != nil && !view.Anchor.Resolved {
		middleware.LoggerFrom(c).Debug().
			Str("essay", slug).
			Int("section", number).
			Msg("anchor did not resolve")
	}
	ok(c, http.StatusOK, view)
}

// CreateAnchor godoc
// @ID          createAnchor
// @Summary     Create a share link
// @Description Captures a selection in the rendered section and returns the anchor and a link that reopens it: a paragraph range when whole paragraphs are selected, a character range otherwise, or a text payload when only text is given.
// @Tags        Reader
// @Accept      json
// @Produce     json
//
// @Param       slug    path  string  true  "Essay slug"
// @Param       number  path  int     true  "Section number"  minimum(1)
// @Param       body    body  handlers.CreateAnchorRequest  true  "Selection"
//
// @Success     201  {object}  services.ShareLink
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid JSON"
// @Failure     404  {object}  handlers.ErrorResponse  "Essay or section not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Empty or out-of-range selection"
// @Failure     503  {object}  handlers.ErrorResponse  "Content unavailable"
// @Router      /essays/{slug}/sections/{number}/anchors [post]
func (h *Handlers) CreateAnchor(c *gin.Context) {
	slug, number, valid := sectionParams(c)
	if !valid {
		fail(c, http.StatusNotFound, ErrCodeSectionNotFound, "section not found")
		return
	}
	var req CreateAnchorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sel := anchor.Selection{Start: req.Start, End: req.End, Text: req.Text}
	link, err := h.readerSvc.CreateAnchor(c.Request.Context(), slug, number, sel)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, link)
}
