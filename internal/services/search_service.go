// Package services – SearchService
//
// This file implements SearchService, which runs queries against the
// memoized search.Engine, decorates every hit with a deep link that reopens
// the section on that occurrence, and records analytics.
//
// Observability: every search is traced and counted; recording failures
// are logged and never surfaced to callers.

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-reader-backend/internal/anchor"
	"github.com/tbourn/go-reader-backend/internal/domain"
	"github.com/tbourn/go-reader-backend/internal/observability"
	"github.com/tbourn/go-reader-backend/internal/repo"
	"github.com/tbourn/go-reader-backend/internal/search"
)

// Search sources recorded with each event.
const (
	SourceHTTP = "http"
	SourceLive = "live"
	SourceCLI  = "cli"
)

// DefaultShareBase is the section page links point at when no base is set.
const DefaultShareBase = "/section.html"

// SearchService executes searches and records them.
type SearchService struct {
	Engine *search.Engine

	// Optional collaborators; nil disables the concern.
	DB      *gorm.DB
	Metrics *observability.Metrics

	Record     bool   // persist a SearchEvent per non-empty search
	ShareBase  string // base of hit links; DefaultShareBase when empty
	TopQueries int    // rows in Stats().TopQueries
}

// LinkedHit is a hit with a link that reopens its section on the hit.
type LinkedHit struct {
	search.Hit
	Link string `json:"link"`
}

// SearchResponse is a search result page ready to serve.
type SearchResponse struct {
	Query         search.Query           `json:"query"`
	Params        string                 `json:"params"` // canonical query string of Query
	Page          search.Page[LinkedHit] `json:"page"`
	SectionCounts []search.SectionCount  `json:"section_counts"`
	EssayCounts   []search.EssayCount    `json:"essay_counts"`
	TotalHits     int                    `json:"total_hits"`
	TotalSections int                    `json:"total_sections"`
	TotalEssays   int                    `json:"total_essays"`
}

// Execute runs q and records it under source.
func (s *SearchService) Execute(ctx context.Context, q search.Query, source string) (*search.Result, error) {
	q = q.Normalize()
	ctx, span := observability.Tracer().Start(ctx, "SearchService.Execute",
		trace.WithAttributes(
			attribute.String("search.mode", string(q.Mode)),
			attribute.String("search.scope", q.Scope),
			attribute.String("search.source", source),
			attribute.Bool("search.case_sensitive", q.CaseSensitive),
		),
	)
	defer span.End()

	start := time.Now()
	res, err := s.Engine.Search(ctx, q)
	took := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		outcome := observability.OutcomeError
		if errors.Is(err, search.ErrIndexUnavailable) {
			outcome = observability.OutcomeUnavailable
		}
		s.observe(q, outcome, took)
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.total_hits", res.TotalHits))
	outcome := observability.OutcomeOK
	if res.TotalHits == 0 {
		outcome = observability.OutcomeEmpty
	}
	s.observe(q, outcome, took)

	if s.Record && s.DB != nil && res.Query.Text != "" {
		s.record(ctx, res, source, took)
	}
	return res, nil
}

// Search implements search.Searcher for HTTP callers.
func (s *SearchService) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	return s.Execute(ctx, q, SourceHTTP)
}

// Live returns a search.Searcher that records runs as live searches.
func (s *SearchService) Live() search.Searcher {
	return searcherFunc(func(ctx context.Context, q search.Query) (*search.Result, error) {
		return s.Execute(ctx, q, SourceLive)
	})
}

// Respond links every hit on the result's page.
func (s *SearchService) Respond(res *search.Result) *SearchResponse {
	out := &SearchResponse{
		Query:         res.Query,
		Params:        res.Query.Values().Encode(),
		SectionCounts: res.SectionCounts,
		EssayCounts:   res.EssayCounts,
		TotalHits:     res.TotalHits,
		TotalSections: res.TotalSections,
		TotalEssays:   res.TotalEssays,
	}
	p := res.Page
	out.Page = search.Page[LinkedHit]{
		Items:      make([]LinkedHit, 0, len(p.Items)),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		Start:      p.Start,
		End:        p.End,
	}
	for _, h := range p.Items {
		out.Page.Items = append(out.Page.Items, LinkedHit{Hit: h, Link: s.HitLink(res.Query, h)})
	}
	return out
}

// HitLink builds the link for h: its section, anchored on the query
// occurrence the hit is.
func (s *SearchService) HitLink(q search.Query, h search.Hit) string {
	ref := anchor.Reference{
		EssaySlug:     h.EssaySlug,
		SectionNumber: h.SectionNumber,
		Anchor: anchor.QueryOccurrence{
			Query:         q.Text,
			Occurrence:    h.Occurrence,
			Mode:          q.Mode,
			CaseSensitive: q.CaseSensitive,
		},
	}
	return ref.URL(s.shareBase())
}

// StatsView is the analytics summary plus the size of the live index.
type StatsView struct {
	Recording bool `json:"recording"`
	*repo.SearchStats
	IndexedEssays   int `json:"indexed_essays"`
	IndexedSections int `json:"indexed_sections"`
}

// Stats summarizes recorded searches. Without a database only the index
// sizes are reported.
func (s *SearchService) Stats(ctx context.Context) (*StatsView, error) {
	ctx, span := observability.Tracer().Start(ctx, "SearchService.Stats")
	defer span.End()

	ix, err := s.Engine.Index(ctx)
	if err != nil {
		return nil, err
	}
	view := &StatsView{
		Recording:       s.Record && s.DB != nil,
		SearchStats:     &repo.SearchStats{ByMode: map[string]int64{}, TopQueries: []repo.QueryCount{}},
		IndexedEssays:   len(ix.Essays()),
		IndexedSections: ix.Len(),
	}
	if s.DB == nil {
		return view, nil
	}
	st, err := repo.SearchEventStats(ctx, s.DB, s.TopQueries)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	view.SearchStats = st
	return view, nil
}

func (s *SearchService) record(ctx context.Context, res *search.Result, source string, took time.Duration) {
	q := res.Query
	ev := &domain.SearchEvent{
		Query:         q.Text,
		Mode:          string(q.Mode),
		Scope:         q.Scope,
		Sort:          string(q.Sort),
		CaseSensitive: q.CaseSensitive,
		TotalHits:     res.TotalHits,
		TotalSections: res.TotalSections,
		TotalEssays:   res.TotalEssays,
		DurationMS:    float64(took.Microseconds()) / 1000,
		Source:        source,
	}
	// recorded even when the request was cancelled
	if err := repo.RecordSearchEvent(context.WithoutCancel(ctx), s.DB, ev); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("query", q.Text).Msg("record search event failed")
	}
}

func (s *SearchService) observe(q search.Query, outcome string, took time.Duration) {
	if s.Metrics != nil {
		s.Metrics.ObserveSearch(string(q.Mode), outcome, took)
	}
}

func (s *SearchService) shareBase() string {
	if s.ShareBase != "" {
		return s.ShareBase
	}
	return DefaultShareBase
}

type searcherFunc func(ctx context.Context, q search.Query) (*search.Result, error)

func (f searcherFunc) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	return f(ctx, q)
}
