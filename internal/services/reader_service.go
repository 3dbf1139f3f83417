// Package services – ReaderService
//
// This file implements ReaderService, the component behind the essay list
// and the section page: it renders a section fresh for every request,
// resolves the anchor carried by the link that opened it, and turns reader
// selections into shareable links.

package services

import (
	"context"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-reader-backend/internal/anchor"
	"github.com/tbourn/go-reader-backend/internal/content"
	"github.com/tbourn/go-reader-backend/internal/observability"
	"github.com/tbourn/go-reader-backend/internal/search"
)

const excerptRunes = 180

// ReaderService serves essays and sections from the search engine's index.
type ReaderService struct {
	Engine   *search.Engine
	Resolver *anchor.Resolver

	Metrics   *observability.Metrics // optional
	ShareBase string                 // base of share links; DefaultShareBase when empty
}

// SectionSummary describes a section in the essay list.
type SectionSummary struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Label       string `json:"label"`
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	SearchLabel string `json:"search_label"`
	WordCount   int    `json:"word_count"`
	ReadMinutes int    `json:"read_minutes"`
	Excerpt     string `json:"excerpt"`
}

// EssaySummary describes a published essay and its sections in reading order.
type EssaySummary struct {
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Summary     string           `json:"summary,omitempty"`
	Order       int              `json:"order"`
	TotalWords  int              `json:"total_words"`
	ReadMinutes int              `json:"read_minutes"`
	Sections    []SectionSummary `json:"sections"`
}

// SectionNav points at a neighbouring section.
type SectionNav struct {
	EssaySlug     string `json:"essay_slug"`
	SectionNumber int    `json:"section_number"`
	Label         string `json:"label"`
	Title         string `json:"title,omitempty"`
}

// SectionView is a rendered section with its resolved anchor.
//
// Blocks are the rendered blocks; Spans and Paragraphs place every inline
// run and paragraph in the rendered text so a client can paint the anchor's
// segments. Anchor is nil when the link carried no anchor parameters.
type SectionView struct {
	ID            string             `json:"id"`
	EssaySlug     string             `json:"essay_slug"`
	EssayTitle    string             `json:"essay_title"`
	SectionNumber int                `json:"section_number"`
	Label         string             `json:"label"`
	Title         string             `json:"title,omitempty"`
	Subtitle      string             `json:"subtitle,omitempty"`
	WordCount     int                `json:"word_count"`
	ReadMinutes   int                `json:"read_minutes"`
	Blocks        []content.Block    `json:"blocks"`
	Spans         []anchor.Span      `json:"spans"`
	Paragraphs    []anchor.Paragraph `json:"paragraphs"`
	TextLength    int                `json:"text_length"`
	Anchor        *anchor.Resolution `json:"anchor,omitempty"`
	Notice        string             `json:"notice,omitempty"`
	Prev          *SectionNav        `json:"prev,omitempty"`
	Next          *SectionNav        `json:"next,omitempty"`
}

// ShareLink is a captured selection and the link that reopens it.
type ShareLink struct {
	Kind    anchor.Kind    `json:"kind"`
	Capture anchor.Capture `json:"capture"`
	Params  string         `json:"params"`
	URL     string         `json:"url"`
}

// Essays lists the published essays.
func (s *ReaderService) Essays(ctx context.Context) ([]EssaySummary, error) {
	ctx, span := observability.Tracer().Start(ctx, "ReaderService.Essays")
	defer span.End()

	ix, err := s.Engine.Index(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make([]EssaySummary, 0, len(ix.Essays()))
	for _, e := range ix.Essays() {
		es := EssaySummary{
			Slug:        e.Slug,
			Title:       e.Title,
			Summary:     e.Summary,
			Order:       e.Order,
			TotalWords:  e.TotalWords,
			ReadMinutes: e.ReadMinutes,
			Sections:    make([]SectionSummary, 0, len(e.Sections)),
		}
		for _, id := range e.Sections {
			d, ok := ix.Document(id)
			if !ok {
				continue
			}
			es.Sections = append(es.Sections, SectionSummary{
				ID:          d.ID,
				Number:      d.SectionNumber,
				Label:       d.Label,
				Title:       d.Title,
				Subtitle:    d.Subtitle,
				SearchLabel: d.SearchLabel,
				WordCount:   d.WordCount,
				ReadMinutes: d.ReadMinutes,
				Excerpt:     content.Excerpt(content.FirstParagraph(d.Section.ContentBlocks), excerptRunes),
			})
		}
		out = append(out, es)
	}
	return out, nil
}

// Section renders a section and resolves the anchor in params, if any.
// An anchor that does not resolve still yields the section.
func (s *ReaderService) Section(ctx context.Context, slug string, number int, params url.Values) (*SectionView, error) {
	ctx, span := observability.Tracer().Start(ctx, "ReaderService.Section",
		trace.WithAttributes(
			attribute.String("essay.slug", slug),
			attribute.Int("section.number", number),
		),
	)
	defer span.End()

	ix, doc, err := s.lookup(ctx, slug, number)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	rendered := anchor.RenderSection(doc.Section)

	view := &SectionView{
		ID:            doc.ID,
		EssaySlug:     doc.EssaySlug,
		EssayTitle:    doc.EssayTitle,
		SectionNumber: doc.SectionNumber,
		Label:         doc.Label,
		Title:         doc.Title,
		Subtitle:      doc.Subtitle,
		WordCount:     doc.WordCount,
		ReadMinutes:   doc.ReadMinutes,
		Blocks:        doc.Section.ContentBlocks,
		Spans:         rendered.Spans(),
		Paragraphs:    rendered.Paragraphs(),
		TextLength:    rendered.Len(),
	}

	if a := anchor.Parse(params); a != nil {
		res := s.resolver().Resolve(rendered, a)
		view.Anchor = &res
		view.Notice = res.Notice()
		span.SetAttributes(
			attribute.String("anchor.strategy", res.Strategy.String()),
			attribute.Bool("anchor.resolved", res.Resolved),
		)
		if s.Metrics != nil {
			s.Metrics.ObserveAnchor(res.Strategy.String(), res.Resolved)
		}
	}

	prev, next := ix.Neighbors(doc.ID)
	view.Prev, view.Next = nav(prev), nav(next)
	return view, nil
}

// CreateAnchor captures sel in the rendered section and builds its link.
func (s *ReaderService) CreateAnchor(ctx context.Context, slug string, number int, sel anchor.Selection) (*ShareLink, error) {
	ctx, span := observability.Tracer().Start(ctx, "ReaderService.CreateAnchor",
		trace.WithAttributes(
			attribute.String("essay.slug", slug),
			attribute.Int("section.number", number),
		),
	)
	defer span.End()

	_, doc, err := s.lookup(ctx, slug, number)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	c, err := anchor.Create(anchor.RenderSection(doc.Section), sel)
	if err != nil {
		return nil, err
	}
	ref := anchor.Reference{EssaySlug: doc.EssaySlug, SectionNumber: doc.SectionNumber, Anchor: c.Anchor}
	span.SetAttributes(attribute.String("anchor.kind", c.Anchor.Kind().String()))

	base := s.ShareBase
	if base == "" {
		base = DefaultShareBase
	}
	return &ShareLink{
		Kind:    c.Anchor.Kind(),
		Capture: c,
		Params:  ref.Values().Encode(),
		URL:     ref.URL(base),
	}, nil
}

func (s *ReaderService) lookup(ctx context.Context, slug string, number int) (*search.Index, *search.Document, error) {
	ix, err := s.Engine.Index(ctx)
	if err != nil {
		return nil, nil, err
	}
	if doc, ok := ix.Section(slug, number); ok {
		return ix, doc, nil
	}
	if _, ok := ix.Essay(slug); !ok {
		return nil, nil, ErrEssayNotFound
	}
	return nil, nil, ErrSectionNotFound
}

func (s *ReaderService) resolver() *anchor.Resolver {
	if s.Resolver != nil {
		return s.Resolver
	}
	return anchor.NewResolver()
}

func nav(d *search.Document) *SectionNav {
	if d == nil {
		return nil
	}
	return &SectionNav{EssaySlug: d.EssaySlug, SectionNumber: d.SectionNumber, Label: d.Label, Title: d.Title}
}
