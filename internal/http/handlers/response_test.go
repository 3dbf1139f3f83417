package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-reader-backend/internal/http/middleware"
)

func TestFail_Envelopes(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		status  int
		code    string
		message string
		logged  bool
	}{
		{"unknown essay", "/api/v1/essays/glass", http.StatusNotFound, ErrCodeEssayNotFound, "essay not found", false},
		{"empty selection", "/api/v1/essays/sand/anchors", http.StatusBadRequest, ErrCodeEmptySelection, "selection is empty", false},
		{"content down", "/api/v1/search?q=sand", http.StatusServiceUnavailable, ErrCodeSearchUnavailable, "content is unavailable", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			var buf bytes.Buffer
			prev := log.Logger
			log.Logger = zerolog.New(&buf)
			t.Cleanup(func() { log.Logger = prev })

			r := gin.New()
			r.Use(middleware.RequestID(), middleware.Logger())
			h := func(c *gin.Context) { Fail(c, tc.status, tc.code, tc.message) }
			r.GET("/api/v1/essays/:slug", h)
			r.GET("/api/v1/essays/:slug/anchors", h)
			r.GET("/api/v1/search", h)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			req.Header.Set("X-Request-ID", "rid-"+tc.code)
			r.ServeHTTP(w, req)

			expectError(t, w, tc.status, tc.code)
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("json: %v", err)
			}
			if er.RequestID != "rid-"+tc.code || er.Message != tc.message {
				t.Fatalf("unexpected envelope: %+v", er)
			}
			if got := strings.Contains(buf.String(), `"message":"api error"`); got != tc.logged {
				t.Fatalf("api error logged = %v; want %v\n%s", got, tc.logged, buf.String())
			}
		})
	}
}

func TestFail_RequestIDFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("requestID", "rid-ctx")
		c.Next()
	})
	r.GET("/api/v1/essays/:slug/sections/:number", func(c *gin.Context) {
		fail(c, http.StatusNotFound, ErrCodeSectionNotFound, "section not found")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/essays/sand/sections/9", nil))

	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if w.Code != http.StatusNotFound || er.RequestID != "rid-ctx" || er.Code != ErrCodeSectionNotFound {
		t.Fatalf("unexpected response %d %+v", w.Code, er)
	}
}

func TestOK_WritesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/essays/:slug/anchors", func(c *gin.Context) {
		ok(c, http.StatusCreated, gin.H{"essay": c.Param("slug"), "p": 2})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/essays/sand/anchors", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body["essay"] != "sand" || body["p"] != float64(2) {
		t.Fatalf("unexpected body: %#v", body)
	}
}
