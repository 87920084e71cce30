package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/domain"
	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
	"github.com/kailas-cloud/layersearch/internal/logger"
	"github.com/kailas-cloud/layersearch/internal/usecase/viewer"
)

// Session is one user's criteria, current aggregate and view of it.
type Session struct {
	id       string
	model    *criteria.Model
	viewer   *viewer.Viewer
	searcher Searcher
	now      func() time.Time

	generation atomic.Uint64

	mu       sync.Mutex
	cancel   context.CancelFunc
	lastUsed time.Time
}

func newSession(id string, searcher Searcher, pageSize int, now func() time.Time) *Session {
	return &Session{
		id:       id,
		model:    criteria.NewModel(),
		viewer:   viewer.New(pageSize),
		searcher: searcher,
		now:      now,
		lastUsed: now(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Criteria returns the mutable criteria model.
func (s *Session) Criteria() *criteria.Model { return s.model }

// Viewer returns the view over the current aggregate.
func (s *Session) Viewer() *viewer.Viewer { return s.viewer }

// Result returns the installed aggregate, nil before the first search.
func (s *Session) Result() *result.SearchResult { return s.viewer.Aggregate() }

// Generation returns the number of searches started so far.
func (s *Session) Generation() uint64 { return s.generation.Load() }

// Search starts a new generation, cancels the previous in-flight search and
// installs the outcome only if no newer search started meanwhile.
// A stale outcome is discarded and domain.ErrSuperseded returned. When the
// caller's ctx ends first, its error is returned and the aggregate is kept.
func (s *Session) Search(parent context.Context, sel domscope.Selector) (*result.SearchResult, error) {
	gen := s.generation.Add(1)
	ctx := logger.With(parent, zap.String("session_id", s.id))
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.lastUsed = s.now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.generation.Load() == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	res, err := s.searcher.Search(ctx, s.model.List(), sel, gen)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation.Load() != gen {
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	s.viewer.SetAggregate(res)
	return res, nil
}

// Close cancels any in-flight search.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = s.now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
