package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a scheduled search runs.
const DefaultDebounce = 180 * time.Millisecond

// Searcher runs a query. *Engine implements it.
type Searcher interface {
	Search(ctx context.Context, q Query) (*Result, error)
}

// Outcome is a completed run handed to the session's deliver func.
type Outcome struct {
	RunID  uint64
	Query  Query
	Result *Result
	Err    error
}

// Session drives incremental search for one client. Schedule debounces
// input; every run gets the next run id and only the most recently issued
// run may deliver. A run that finishes after a newer one was issued is
// dropped silently and its context is cancelled when the newer run starts.
type Session struct {
	searcher Searcher
	delay    time.Duration
	deliver  func(Outcome)
	parent   context.Context

	mu         sync.Mutex
	timer      *time.Timer
	armed      uint64 // bumped whenever the pending timer is replaced or disarmed
	pending    Query
	hasPending bool
	run        uint64
	cancel     context.CancelFunc
	stopped    bool

	out sync.Mutex // serializes the currency check with delivery
}

// NewSession returns a session running searches under ctx. A delay <= 0
// uses DefaultDebounce.
func NewSession(ctx context.Context, s Searcher, delay time.Duration, deliver func(Outcome)) *Session {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Session{searcher: s, delay: delay, deliver: deliver, parent: ctx}
}

// Schedule replaces any pending search with q and arms the debounce timer.
func (s *Session) Schedule(q Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.armed++
	gen := s.armed
	s.pending, s.hasPending = q, true
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Flush runs the pending search now, if any. It reports whether a result
// was delivered.
func (s *Session) Flush() bool {
	s.mu.Lock()
	if !s.hasPending || s.stopped {
		s.mu.Unlock()
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armed++
	q := s.pending
	s.hasPending = false
	s.mu.Unlock()
	return s.Run(q)
}

// Run issues q as the newest run and executes it synchronously. It reports
// whether the outcome was delivered.
func (s *Session) Run(q Query) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	s.run++
	id := s.run
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel
	s.mu.Unlock()

	res, err := s.searcher.Search(ctx, q)

	s.out.Lock()
	defer s.out.Unlock()
	s.mu.Lock()
	current := id == s.run && !s.stopped
	if current {
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()

	if !current {
		return false
	}
	s.deliver(Outcome{RunID: id, Query: q, Result: res, Err: err})
	return true
}

// LastRun returns the id of the most recently issued run.
func (s *Session) LastRun() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run
}

// Stop disarms the timer, cancels the in-flight run and drops every later
// outcome. A stopped session cannot be restarted.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.hasPending = false
	s.armed++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.armed || !s.hasPending || s.stopped {
		s.mu.Unlock()
		return
	}
	q := s.pending
	s.hasPending = false
	s.timer = nil
	s.mu.Unlock()
	s.Run(q)
}
