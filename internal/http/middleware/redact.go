// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the structured access logger. Reader
// links carry the passage a reader selected (hl/hlp/hls) in their query
// string; those values are masked before logging, as are credential headers
// and e-mail addresses typed into search queries.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.RequestID())
//	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
//	    MaskHeaders: []string{"X-Api-Key"},
//	}))
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const redacted = "[REDACTED]"

// DefaultMaskedParams are the query parameters whose values are never logged.
var DefaultMaskedParams = []string{"hl", "hlp", "hls"}

var emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)

// RedactOptions configures RedactingLogger.
//
// MaskParams replaces DefaultMaskedParams when non-empty. MaskHeaders adds to
// the built-in masked headers (Authorization, Cookie, Set-Cookie). Matching
// is case-insensitive for headers and exact for parameters.
type RedactOptions struct {
	MaskParams  []string
	MaskHeaders []string
}

// RedactingLogger returns a Gin middleware that logs every request with
// sensitive values scrubbed and attaches a request-scoped logger.
//
// The log level follows the outcome: error for 5xx or when Gin collected
// errors, warn for 4xx, info otherwise.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	params := opts.MaskParams
	if len(params) == 0 {
		params = DefaultMaskedParams
	}
	maskParams := make(map[string]struct{}, len(params))
	for _, p := range params {
		maskParams[p] = struct{}{}
	}
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				headers[k] = redacted
				continue
			}
			headers[k] = emailRE.ReplaceAllString(strings.Join(vv, ", "), "[REDACTED:email]")
		}

		rid := c.Writer.Header().Get(requestIDHeader)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}
		l := log.With().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Logger()

		c.Set(loggerKey, &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case len(c.Errors) > 0:
			ev = l.Error().Str("errors", c.Errors.String())
		case status >= 500:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		}
		ev.
			Str("query", truncate(RedactQuery(c.Request.URL.RawQuery, maskParams), maxQueryLogLength)).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("request")
	}
}

// RedactQuery masks the values of the named parameters in a raw query string
// and e-mail addresses elsewhere, keeping parameter order.
func RedactQuery(raw string, mask map[string]struct{}) string {
	if raw == "" {
		return raw
	}
	pairs := strings.Split(raw, "&")
	for i, p := range pairs {
		k, _, hasValue := strings.Cut(p, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			key = k
		}
		if _, ok := mask[key]; ok && hasValue {
			pairs[i] = k + "=" + redacted
			continue
		}
		if v, err := url.QueryUnescape(p); err == nil && emailRE.MatchString(v) {
			pairs[i] = emailRE.ReplaceAllString(v, "[REDACTED:email]")
		}
	}
	return strings.Join(pairs, "&")
}
