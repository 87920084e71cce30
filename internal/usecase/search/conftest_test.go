package search

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/record"
	"github.com/kailas-cloud/layersearch/internal/domain/search/expression"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
)

// mockColls answers per-ref with a fixed record count, an error, or a custom func.
type mockColls struct {
	mu      sync.Mutex
	counts  map[layer.Ref]int
	errs    map[layer.Ref]error
	queryFn func(ctx context.Context, ref layer.Ref) ([]record.Record, error)
	calls   atomic.Int32
	exprs   []string
}

func (m *mockColls) Query(ctx context.Context, ref layer.Ref, expr expression.Expression) ([]record.Record, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.exprs = append(m.exprs, expr.String())
	m.mu.Unlock()

	if m.queryFn != nil {
		return m.queryFn(ctx, ref)
	}
	if err := m.errs[ref]; err != nil {
		return nil, err
	}
	return makeRecords(ref, m.counts[ref]), nil
}

func makeRecords(ref layer.Ref, n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = record.New(map[string]any{"id": fmt.Sprintf("%s#%d", ref, i)}, nil, "")
	}
	return out
}

type mockResolver struct {
	refs  []layer.Ref
	err   error
	calls int
}

func (m *mockResolver) Resolve(_ context.Context, _ domscope.Selector) ([]layer.Ref, error) {
	m.calls++
	return m.refs, m.err
}

func ref(n int) layer.Ref { return layer.NewRef(layer.KindLayer, n) }

func newTestService(t *testing.T, colls *mockColls, res *mockResolver, opts ...Option) *Service {
	t.Helper()
	return New(colls, res, zap.NewNop(), opts...)
}
