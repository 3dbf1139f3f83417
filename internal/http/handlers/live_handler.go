// Live search over a websocket.
//
// The client streams what the reader types; the server debounces input,
// runs searches with increasing run ids and pushes only the outcome of the
// most recently issued run. An outcome that arrives after a newer run was
// issued is dropped, so results never flicker back to an older query.
//
// Client → server:
//
//	{"type":"input",  "query":{"q":"sa"}}          // debounced
//	{"type":"submit", "query":{"q":"sand","mode":"fuzzy"}}  // runs now
//
// Server → client:
//
//	{"type":"result", "run_id":3, "result":{...SearchResponse}}
//	{"type":"error",  "run_id":4, "code":"search_unavailable", "message":"..."}
package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tbourn/go-reader-backend/internal/http/middleware"
	"github.com/tbourn/go-reader-backend/internal/search"
	"github.com/tbourn/go-reader-backend/internal/services"
)

// Live message types.
const (
	LiveInput  = "input"
	LiveSubmit = "submit"
	LiveResult = "result"
	LiveError  = "error"
)

const (
	liveWriteWait  = 10 * time.Second
	liveMaxMessage = 8 << 10
)

var errLiveRateLimited = errors.New("live search rate limited")

// LiveMessage is a client message.
type LiveMessage struct {
	Type  string       `json:"type" example:"input"`
	Query search.Query `json:"query"`
}

// LiveEvent is a server message.
type LiveEvent struct {
	Type    string                   `json:"type"`
	RunID   uint64                   `json:"run_id,omitempty"`
	Result  *services.SearchResponse `json:"result,omitempty"`
	Code    string                   `json:"code,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// LiveSearch godoc
// @ID          liveSearch
// @Summary     Live search (websocket)
// @Description Upgrades to a websocket. Send {"type":"input"|"submit","query":{...}}; receive {"type":"result"|"error","run_id":n,...}.
// @Description Input is debounced; only the newest run's outcome is delivered.
// @Tags        Search
//
// @Success     101  {string}  string  "Switching Protocols"
// @Failure     400  {string}  string  "Not a websocket handshake"
// @Router      /search/live [get]
func (h *Handlers) LiveSearch(c *gin.Context) {
	up := websocket.Upgrader{
		ReadBufferSize:  1 << 10,
		WriteBufferSize: 4 << 10,
		CheckOrigin:     h.live.CheckOrigin,
	}
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already replied
		return
	}
	defer conn.Close()
	conn.SetReadLimit(liveMaxMessage)

	lg := middleware.LoggerFrom(c)
	if m := h.live.Metrics; m != nil {
		m.LiveSessions.Inc()
		defer m.LiveSessions.Dec()
	}

	var wmu sync.Mutex
	send := func(ev LiveEvent) {
		wmu.Lock()
		defer wmu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err := conn.WriteJSON(ev); err != nil {
			lg.Debug().Err(err).Msg("live write failed")
		}
	}

	var searcher search.Searcher = h.searchSvc.Live()
	if rl := h.live.Limiter; rl != nil {
		key := rl.Key(c)
		searcher = limitedSearcher{next: searcher, allow: func() bool { return rl.Allow(key) }}
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	sess := search.NewSession(ctx, searcher, h.live.Debounce, func(o search.Outcome) {
		if o.Err != nil {
			code, msg := liveFailure(o.Err)
			send(LiveEvent{Type: LiveError, RunID: o.RunID, Code: code, Message: msg})
			return
		}
		send(LiveEvent{Type: LiveResult, RunID: o.RunID, Result: h.searchSvc.Respond(o.Result)})
	})
	defer sess.Stop()

	for {
		var msg LiveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				lg.Debug().Err(err).Msg("live session closed")
			}
			return
		}
		switch msg.Type {
		case LiveInput:
			sess.Schedule(msg.Query)
		case LiveSubmit:
			sess.Schedule(msg.Query)
			go sess.Flush()
		default:
			send(LiveEvent{Type: LiveError, Code: ErrCodeBadRequest, Message: "unknown message type"})
		}
	}
}

func liveFailure(err error) (code, msg string) {
	switch {
	case errors.Is(err, errLiveRateLimited):
		return ErrCodeRateLimited, "rate limit exceeded"
	case errors.Is(err, services.ErrUnavailable):
		return ErrCodeSearchUnavailable, "content is unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout, "search cancelled"
	default:
		return ErrCodeInternal, "internal error"
	}
}

// limitedSearcher charges a token per executed search.
type limitedSearcher struct {
	next  search.Searcher
	allow func() bool
}

func (s limitedSearcher) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	if !s.allow() {
		return nil, errLiveRateLimited
	}
	return s.next.Search(ctx, q)
}

// SameOriginOrAny accepts handshakes from the allowed origins, or from any
// origin when none are configured. Non-browser clients send no Origin and
// are always accepted.
func SameOriginOrAny(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
