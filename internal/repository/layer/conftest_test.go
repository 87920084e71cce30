package layer

import (
	"context"
	"testing"

	"github.com/kailas-cloud/layersearch/internal/db"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	columnsFn func(ctx context.Context, table string) ([]db.Column, error)
	selectFn  func(ctx context.Context, q *db.SelectQuery) (*db.SelectResult, error)
}

func (m *mockStore) Columns(ctx context.Context, table string) ([]db.Column, error) {
	if m.columnsFn != nil {
		return m.columnsFn(ctx, table)
	}
	return nil, nil
}

func (m *mockStore) Select(ctx context.Context, q *db.SelectQuery) (*db.SelectResult, error) {
	if m.selectFn != nil {
		return m.selectFn(ctx, q)
	}
	return &db.SelectResult{}, nil
}

func testCatalog(t *testing.T) layer.Catalog {
	t.Helper()
	parks, err := layer.NewLeaf(0, "Parks", "parks")
	if err != nil {
		t.Fatalf("NewLeaf: %v", err)
	}
	roads, err := layer.NewLeaf(1, "Roads", "roads")
	if err != nil {
		t.Fatalf("NewLeaf: %v", err)
	}
	c, err := layer.NewCatalog([]layer.Entry{parks, roads})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testCatalog(t)), ms
}
