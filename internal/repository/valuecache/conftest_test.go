package valuecache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/db"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
)

type mockSource struct {
	values []any
	err    error
	calls  int
}

func (m *mockSource) Distinct(_ context.Context, _ layer.Ref, _ string, _ int) ([]any, error) {
	m.calls++
	return m.values, m.err
}

// mockCacheStore implements the consumer interface for tests.
type mockCacheStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn func(ctx context.Context, prefix string) (int, error)
}

func (m *mockCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockCacheStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCacheStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if m.delFn != nil {
		return m.delFn(ctx, prefix)
	}
	return 0, nil
}

func newTestCachedValues(t *testing.T, inner *mockSource) (*CachedValues, *mockCacheStore) {
	t.Helper()
	ms := &mockCacheStore{}
	cv := New(inner, ms, time.Minute, nil, zap.NewNop())
	return cv, ms
}
