// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-reader-backend/docs"
	"github.com/tbourn/go-reader-backend/internal/anchor"
	"github.com/tbourn/go-reader-backend/internal/config"
	"github.com/tbourn/go-reader-backend/internal/content"
	"github.com/tbourn/go-reader-backend/internal/http/handlers"
	"github.com/tbourn/go-reader-backend/internal/http/middleware"
	"github.com/tbourn/go-reader-backend/internal/observability"
	"github.com/tbourn/go-reader-backend/internal/search"
	"github.com/tbourn/go-reader-backend/internal/services"
)

// Routes relative to the API base path.
const (
	routeEssays  = "/essays"
	routeSection = "/essays/:slug/sections/:number"
	routeAnchors = "/essays/:slug/sections/:number/anchors"
	routeSearch  = "/search"
	routeLive    = "/search/live"
	routeStats   = "/search/stats"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and returns the search engine serving them, so callers can warm the
// index. db may be nil, which disables search recording and analytics.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with anchor text scrubbed
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per IP; /health and /metrics exempt)
//  8. Compression (websocket upgrades excluded)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, src content.Source, cfg config.Config) *search.Engine {
	r.HandleMethodNotAllowed = true
	apiBase := cfg.APIBasePath // e.g. "/api/v1"

	// Each router owns its registry so tests can build many routers.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"Sec-WebSocket-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB; selections are small)
	r.Use(limitBody(64 << 10))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.NewHTTPMetrics(reg).Handler())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// 7) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP()).
		Exempt("/health", "/metrics")
	r.Use(rl.Handler())

	// 8) Compression
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics", apiPath(apiBase, routeLive)}),
	))

	// 9) CORS posture (safe defaults: allow all if none configured)
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		AllowWebSockets:  true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps simple clients and health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = apiBase
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← engine ← content source
	engine := search.NewEngine(src, search.WithBuildObserver(metrics.ObserveIndexBuild))
	searchSvc := &services.SearchService{
		Engine:     engine,
		DB:         db,
		Metrics:    metrics,
		Record:     cfg.RecordSearches,
		ShareBase:  cfg.ShareBaseURL,
		TopQueries: cfg.StatsTopQueries,
	}
	readerSvc := &services.ReaderService{
		Engine:    engine,
		Resolver:  &anchor.Resolver{QueryCap: cfg.QueryHighlightCap},
		Metrics:   metrics,
		ShareBase: cfg.ShareBaseURL,
	}
	h := handlers.New(searchSvc, readerSvc, handlers.LiveOptions{
		Debounce:    cfg.SearchDebounce,
		Limiter:     rl,
		Metrics:     metrics,
		CheckOrigin: handlers.SameOriginOrAny(cfg.CORS.AllowedOrigins),
	})

	// Public API
	api := groupWithPrefix(r, apiBase)
	{
		// Reader
		api.GET(routeEssays, h.ListEssays)
		api.GET(routeSection, h.GetSection)
		api.POST(routeAnchors, h.CreateAnchor)

		// Search
		api.GET(routeSearch, h.Search)
		api.GET(routeLive, h.LiveSearch)
		api.GET(routeStats, h.SearchStats)
	}
	return engine
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// apiPath joins the API base path and a route.
func apiPath(base, route string) string {
	if base == "" || base == "/" {
		return route
	}
	return base + route
}
