package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/layersearch/internal/domain"
	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/search/expression"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
	logpkg "github.com/kailas-cloud/layersearch/internal/logger"
	"github.com/kailas-cloud/layersearch/internal/metrics"
)

// Default fan-out settings.
const (
	DefaultMaxParallel  = 8
	DefaultQueryTimeout = 30 * time.Second
)

// Service compiles criteria and queries every layer in scope concurrently.
// A failing layer never aborts the search; it is reported in the result.
type Service struct {
	colls        Collections
	resolver     ScopeResolver
	bus          *Bus
	logger       *zap.Logger
	maxParallel  int
	queryTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithMaxParallel caps concurrent layer queries; n <= 0 means unbounded.
func WithMaxParallel(n int) Option {
	return func(s *Service) { s.maxParallel = n }
}

// WithQueryTimeout bounds each layer query; d <= 0 disables the bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) { s.queryTimeout = d }
}

// WithBus publishes failure events on bus.
func WithBus(bus *Bus) Option {
	return func(s *Service) { s.bus = bus }
}

// New creates a search service.
func New(colls Collections, resolver ScopeResolver, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		colls:        colls,
		resolver:     resolver,
		logger:       logger,
		maxParallel:  DefaultMaxParallel,
		queryTimeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search validates the criteria, resolves the scope and runs the compiled
// predicate against every resolved layer. Validation errors are returned
// before any layer is touched.
func (s *Service) Search(
	ctx context.Context, cs []criteria.Criterion, sel domscope.Selector, generation uint64,
) (*result.SearchResult, error) {
	if err := expression.Validate(cs); err != nil {
		return nil, err
	}

	refs, err := s.resolver.Resolve(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", err)
	}

	return s.execute(ctx, uuid.NewString(), generation, expression.Compile(cs), refs), nil
}

// Execute queries refs with expr and aggregates the outcome in ref order.
func (s *Service) Execute(ctx context.Context, expr expression.Expression, refs []layer.Ref) *result.SearchResult {
	return s.execute(ctx, uuid.NewString(), 0, expr, refs)
}

func (s *Service) execute(
	ctx context.Context, id string, generation uint64,
	expr expression.Expression, refs []layer.Ref,
) *result.SearchResult {
	parts := make([]result.Part, len(refs))

	var g errgroup.Group
	if s.maxParallel > 0 {
		g.SetLimit(s.maxParallel)
	}
	for i, ref := range refs {
		g.Go(func() error {
			parts[i] = s.queryOne(ctx, id, generation, ref, expr)
			return nil
		})
	}
	_ = g.Wait()

	res := result.New(id, generation, parts)
	if len(res.Failures()) > 0 {
		metrics.SearchPartialFailuresTotal.Inc()
	}
	return res
}

func (s *Service) queryOne(
	ctx context.Context, id string, generation uint64,
	ref layer.Ref, expr expression.Expression,
) (part result.Part) {
	part.Ref = ref
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			part.Records = nil
			part.Err = fmt.Errorf("panic: %v", r)
		}
		duration := time.Since(start)
		status := "ok"
		if part.Err != nil {
			status = "error"
			part.Err = domain.NewCollectionQueryError(ref.String(), part.Err)
			s.reportFailure(ctx, id, generation, ref, part.Err, duration)
		}
		metrics.CollectionQueriesTotal.WithLabelValues(status).Inc()
		metrics.CollectionQueryDuration.WithLabelValues(status).Observe(duration.Seconds())
	}()

	qctx := ctx
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	part.Records, part.Err = s.colls.Query(qctx, ref, expr)
	return part
}

func (s *Service) reportFailure(
	ctx context.Context, id string, generation uint64, ref layer.Ref, err error, d time.Duration,
) {
	logpkg.FromContextOr(ctx, s.logger).Warn("Layer query failed",
		zap.String("ref", ref.String()),
		zap.String("search_id", id),
		zap.Uint64("generation", generation),
		zap.Duration("duration", d),
		zap.Error(err),
	)
	if s.bus != nil {
		s.bus.Emit(EventCollectionFailed, CollectionFailed{
			SearchID:   id,
			Generation: generation,
			Ref:        ref,
			Err:        err,
			Duration:   d,
		})
	}
}
