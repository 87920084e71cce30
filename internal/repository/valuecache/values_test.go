package valuecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/db"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
)

var parks = layer.NewRef(layer.KindLayer, 0)

func TestDistinct_CacheMiss(t *testing.T) {
	inner := &mockSource{values: []any{"city", int64(12), 3.5}}
	cv, ms := newTestCachedValues(t, inner)

	var (
		setKey string
		setTTL time.Duration
		stored []byte
	)
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setTTL, stored = key, ttl, value
		return nil
	}

	vals, err := cv.Distinct(context.Background(), parks, "kind", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 3 {
		t.Fatalf("unexpected values: %v", vals)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
	if !strings.HasPrefix(setKey, cacheKeyPrefix+"layer:0:100:") {
		t.Errorf("unexpected key: %s", setKey)
	}
	if setTTL != time.Minute {
		t.Errorf("ttl = %v, want 1m", setTTL)
	}
	if string(stored) != `["city",12,3.5]` {
		t.Errorf("stored = %s", stored)
	}
}

func TestDistinct_CacheHit(t *testing.T) {
	inner := &mockSource{values: []any{"never"}}
	cv, ms := newTestCachedValues(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`["city",12,3.5]`), nil
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		t.Fatal("SET must not be called on hit")
		return nil
	}

	vals, err := cv.Distinct(context.Background(), parks, "kind", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 0 {
		t.Fatalf("inner called on hit")
	}
	got := make([]string, len(vals))
	for i, v := range vals {
		got[i] = fmt.Sprint(v)
	}
	if strings.Join(got, ",") != "city,12,3.5" {
		t.Errorf("unexpected values: %v", got)
	}
	if _, ok := vals[1].(json.Number); !ok {
		t.Errorf("expected json.Number, got %T", vals[1])
	}
}

func TestDistinct_StoreErrorFallsBack(t *testing.T) {
	inner := &mockSource{values: []any{"a"}}
	cv, ms := newTestCachedValues(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, &db.Error{Op: db.OpGet, Err: errors.New("connection refused")}
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	vals, err := cv.Distinct(context.Background(), parks, "kind", 10)
	if err != nil {
		t.Fatalf("cache errors must not surface: %v", err)
	}
	if len(vals) != 1 || inner.calls != 1 {
		t.Errorf("unexpected result: %v calls=%d", vals, inner.calls)
	}
}

func TestDistinct_CorruptCacheFallsBack(t *testing.T) {
	inner := &mockSource{values: []any{"a"}}
	cv, ms := newTestCachedValues(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{not json"), nil
	}

	if _, err := cv.Distinct(context.Background(), parks, "kind", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected fallback to inner, calls=%d", inner.calls)
	}
}

func TestDistinct_InnerError(t *testing.T) {
	boom := errors.New("no such column")
	inner := &mockSource{err: boom}
	cv, _ := newTestCachedValues(t, inner)

	_, err := cv.Distinct(context.Background(), parks, "kind", 10)
	if !errors.Is(err, boom) {
		t.Fatalf("expected inner error, got %v", err)
	}
}

func TestDistinct_CountsHitsAndMisses(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_values_cache_total"}, []string{"result"})
	inner := &mockSource{values: []any{"a"}}
	ms := &mockCacheStore{}
	cv := New(inner, ms, 0, counter, zap.NewNop())

	_, _ = cv.Distinct(context.Background(), parks, "kind", 10)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return []byte(`["a"]`), nil }
	_, _ = cv.Distinct(context.Background(), parks, "kind", 10)

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit = %v, want 1", got)
	}
}

func TestCacheKey_DependsOnAllParts(t *testing.T) {
	base := cacheKey(parks, "kind", 100)
	for _, other := range []string{
		cacheKey(layer.NewRef(layer.KindLayer, 1), "kind", 100),
		cacheKey(parks, "name", 100),
		cacheKey(parks, "kind", 50),
	} {
		if other == base {
			t.Errorf("key collision: %s", base)
		}
	}
}

func TestPurge(t *testing.T) {
	cv, ms := newTestCachedValues(t, &mockSource{})
	var prefix string
	ms.delFn = func(_ context.Context, p string) (int, error) {
		prefix = p
		return 4, nil
	}

	n, err := cv.Purge(context.Background())
	if err != nil || n != 4 {
		t.Fatalf("Purge = %d, %v", n, err)
	}
	if prefix != cacheKeyPrefix {
		t.Errorf("prefix = %q, want %q", prefix, cacheKeyPrefix)
	}

	ms.delFn = func(_ context.Context, _ string) (int, error) {
		return 0, &db.Error{Op: db.OpScan, Err: errors.New("NOPERM")}
	}
	if _, err := cv.Purge(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
