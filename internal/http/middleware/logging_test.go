package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	sectionRoute = "/api/v1/essays/:slug/sections/:number"
	searchRoute  = "/api/v1/search"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

// logLines decodes every JSON log line in buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("log line is not JSON: %q", sc.Text())
		}
		out = append(out, m)
	}
	return out
}

// readerRouter mounts stand-ins for the section and search endpoints behind
// the logging middleware.
func readerRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery())
	r.GET(sectionRoute, func(c *gin.Context) {
		if c.Param("number") == "13" {
			panic("section renderer exploded")
		}
		c.JSON(http.StatusOK, gin.H{"essay": c.Param("slug"), "section": c.Param("number")})
	})
	r.GET(searchRoute, func(c *gin.Context) {
		if c.Query("q") == "" {
			c.JSON(http.StatusOK, gin.H{"total_hits": 0})
			return
		}
		_ = c.Error(errors.New("index unavailable"))
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "search_unavailable"})
	})
	return r
}

func get(r http.Handler, target string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	cases := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"generated", "", "", ""},
		{"propagated", requestIDHeader, "reader-7", "reader-7"},
		{"lowercase header", strings.ToLower(requestIDHeader), "reader-8", "reader-8"},
	}
	r := readerRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hdr := map[string]string{}
			if tc.header != "" {
				hdr[tc.header] = tc.value
			}
			w := get(r, "/api/v1/essays/sand/sections/1", hdr)
			got := w.Header().Get(requestIDHeader)
			if tc.want == "" {
				if _, err := uuid.Parse(got); err != nil {
					t.Fatalf("generated request id %q is not a uuid: %v", got, err)
				}
				return
			}
			if got != tc.want {
				t.Fatalf("request id = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestLogger_LevelsFollowOutcome(t *testing.T) {
	cases := []struct {
		name   string
		target string
		status int
		level  string
		path   string
	}{
		{"section ok", "/api/v1/essays/sand/sections/2?p=2", http.StatusOK, "info", sectionRoute},
		{"empty search", "/api/v1/search?q=", http.StatusOK, "info", searchRoute},
		{"search failed", "/api/v1/search?q=sand", http.StatusServiceUnavailable, "error", searchRoute},
		{"unknown route keeps raw path", "/api/v1/chapters/3", http.StatusNotFound, "warn", "/api/v1/chapters/3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLogger(t)
			w := get(readerRouter(), tc.target, nil)
			if w.Code != tc.status {
				t.Fatalf("status = %d; want %d", w.Code, tc.status)
			}
			lines := logLines(t, buf)
			if len(lines) != 1 {
				t.Fatalf("expected one access log line, got %d:\n%s", len(lines), buf.String())
			}
			got := lines[0]
			if got["level"] != tc.level || got["path"] != tc.path || got["message"] != "request" {
				t.Fatalf("unexpected access log: %v", got)
			}
			if got["request_id"] != w.Header().Get(requestIDHeader) {
				t.Fatalf("log request_id %v != header %q", got["request_id"], w.Header().Get(requestIDHeader))
			}
			if tc.level == "error" && got["errors"] == nil {
				t.Fatalf("error log should carry the handler errors: %v", got)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	buf := captureLogger(t)
	w := get(readerRouter(), "/api/v1/essays/sand/sections/13", map[string]string{requestIDHeader: "rid-13"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	want := map[string]string{"request_id": "rid-13", "code": "internal_error", "message": "internal server error"}
	for k, v := range want {
		if body[k] != v {
			t.Fatalf("body[%s] = %q; want %q", k, body[k], v)
		}
	}

	var recovered bool
	for _, l := range logLines(t, buf) {
		if l["message"] == "panic recovered" && l["panic"] == "section renderer exploded" && l["stack"] != nil {
			recovered = true
		}
	}
	if !recovered {
		t.Fatalf("expected panic log with stack, got:\n%s", buf.String())
	}
}

func TestRecovery_AfterWriteKeepsBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET(searchRoute, func(c *gin.Context) {
		c.String(http.StatusOK, "partial page")
		panic("late failure")
	})

	w := get(r, "/api/v1/search?q=sand", nil)
	if w.Body.String() != "partial page" {
		t.Fatalf("body = %q; want the partial page only", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); strings.Contains(ct, "application/json") {
		t.Fatalf("unexpected JSON content type %q after write", ct)
	}
}

func TestLoggerFrom(t *testing.T) {
	cases := []struct {
		name      string
		logged    bool
		wantField bool
	}{
		{"fallback without Logger", false, false},
		{"request scoped", true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			buf := captureLogger(t)
			r := gin.New()
			r.Use(RequestID())
			if tc.logged {
				r.Use(Logger())
			}
			r.GET(searchRoute, func(c *gin.Context) {
				LoggerFrom(c).Info().Str("q", c.Query("q")).Msg("search executed")
				zerolog.Ctx(c.Request.Context()).Info().Msg("from context")
				c.Status(http.StatusOK)
			})
			get(r, "/api/v1/search?q=sand", nil)

			var found, fromCtx bool
			for _, l := range logLines(t, buf) {
				switch l["message"] {
				case "search executed":
					found = true
					if _, ok := l["request_id"]; ok != tc.wantField {
						t.Fatalf("request_id present = %v; want %v (%v)", ok, tc.wantField, l)
					}
				case "from context":
					fromCtx = true
				}
			}
			if !found {
				t.Fatalf("missing handler log:\n%s", buf.String())
			}
			if fromCtx != tc.logged {
				t.Fatalf("context logger used = %v; want %v", fromCtx, tc.logged)
			}
		})
	}
}

func TestRequestIDFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := RequestIDFrom(c); got != "" {
		t.Fatalf("RequestIDFrom without id = %q", got)
	}
	c.Set(requestIDKey, "rid-9")
	if got := RequestIDFrom(c); got != "rid-9" {
		t.Fatalf("RequestIDFrom = %q; want rid-9", got)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"q=sand", 10, "q=sand"},
		{"q=sand&mode=fuzzy", 6, "q=sand…"},
		{"q=sand", 0, "q=sand"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q; want %q", tc.in, tc.max, got, tc.want)
		}
	}
	if asString("rid") != "rid" || asString(7) != "" {
		t.Fatalf("asString mismatch")
	}
}
