package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tbourn/go-reader-backend/internal/content"
)

// ErrIndexUnavailable is returned when the content source fails while the
// index is being built. The source error is wrapped alongside it.
var ErrIndexUnavailable = errors.New("search index unavailable")

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	onBuild func(docs int, took time.Duration, err error)
}

// WithBuildObserver registers fn to be called after every index build
// attempt, successful or not.
func WithBuildObserver(fn func(docs int, took time.Duration, err error)) Option {
	return func(c *config) {
		if fn != nil {
			c.onBuild = fn
		}
	}
}

// ----------------------------------------------------------------------------
// Engine

// Engine owns a lazily built index. The first caller triggers the build and
// concurrent callers wait for the same build. A successful build is kept for
// the lifetime of the engine; a failed one is not, so the next call retries.
type Engine struct {
	src   content.Source
	cfg   config
	group singleflight.Group

	mu  sync.RWMutex
	idx *Index
}

// NewEngine returns an engine that builds its index from src on first use.
func NewEngine(src content.Source, opts ...Option) *Engine {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	return &Engine{src: src, cfg: cfg}
}

// NewEngineFromIndex returns an engine serving a prebuilt index.
func NewEngineFromIndex(ix *Index) *Engine {
	return &Engine{idx: ix}
}

// Index returns the memoized index, building it if needed. The build is
// detached from ctx so one caller giving up does not fail the others.
func (e *Engine) Index(ctx context.Context) (*Index, error) {
	if ix := e.loaded(); ix != nil {
		return ix, nil
	}
	if e.src == nil {
		return nil, fmt.Errorf("%w: no content source", ErrIndexUnavailable)
	}

	ch := e.group.DoChan("index", func() (any, error) {
		if ix := e.loaded(); ix != nil {
			return ix, nil
		}
		start := time.Now()
		essays, err := e.src.Load(context.WithoutCancel(ctx))
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
			e.observe(0, time.Since(start), err)
			return nil, err
		}
		ix := BuildIndex(essays)
		e.mu.Lock()
		e.idx = ix
		e.mu.Unlock()
		e.observe(ix.Len(), time.Since(start), nil)
		return ix, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Index), nil
	}
}

// Search builds the index if needed and runs q against it.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	ix, err := e.Index(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Search(q), nil
}

func (e *Engine) loaded() *Index {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.idx
}

func (e *Engine) observe(docs int, took time.Duration, err error) {
	if e.cfg.onBuild != nil {
		e.cfg.onBuild(docs, took, err)
	}
}

// ----------------------------------------------------------------------------
// Search

// Search runs a normalized q against the index. An empty query yields an
// empty result without matching. Hits are numbered per document in
// discovery order, sorted, aggregated and paginated.
func (ix *Index) Search(q Query) *Result {
	q = q.Normalize()
	scope, docs := ix.ResolveScope(q.Scope)
	q.Scope = scope

	res := &Result{
		Query:         q,
		Hits:          []Hit{},
		SectionCounts: []SectionCount{},
		EssayCounts:   []EssayCount{},
	}
	m := compileMatcher(q.Text, q.Mode, q.CaseSensitive)
	if m == nil {
		res.Page = Paginate(res.Hits, q.Page, q.PageSize)
		res.Query.Page = res.Page.Page
		return res
	}

	for _, d := range docs {
		for i, o := range m.find(d.Text) {
			snippet := Snippet(d.Plain, o.Offset, o.Length)
			res.Hits = append(res.Hits, Hit{
				DocumentID:         d.ID,
				EssaySlug:          d.EssaySlug,
				EssayTitle:         d.EssayTitle,
				EssayOrder:         d.EssayOrder,
				SectionNumber:      d.SectionNumber,
				SectionOrder:       d.SectionOrder,
				SectionTitle:       d.Title,
				SectionSearchLabel: d.SearchLabel,
				Offset:             o.Offset,
				Length:             o.Length,
				MatchedText:        o.MatchedText,
				Score:              o.Score,
				Occurrence:         i + 1,
				Snippet:            snippet,
				SnippetHTML:        Highlight(snippet, o.MatchedText),
			})
		}
	}

	sortHits(res.Hits, q.Sort)
	res.SectionCounts, res.EssayCounts = aggregate(res.Hits)
	res.TotalHits = len(res.Hits)
	res.TotalSections = len(res.SectionCounts)
	res.TotalEssays = len(res.EssayCounts)
	res.Page = Paginate(res.Hits, q.Page, q.PageSize)
	res.Query.Page = res.Page.Page
	return res
}
