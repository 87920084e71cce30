package valuecache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/db"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
)

const cacheKeyPrefix = "layersearch:values:"

// source is the wrapped distinct-value provider.
type source interface {
	Distinct(ctx context.Context, ref layer.Ref, fieldName string, limit int) ([]any, error)
}

// store is the consumer interface for the value cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// CachedValues caches distinct field values in a key-value store.
type CachedValues struct {
	inner      source
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner source,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedValues {
	return &CachedValues{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Distinct returns cached values or asks the inner source.
// Cache errors degrade to a miss; only inner errors are returned.
func (c *CachedValues) Distinct(ctx context.Context, ref layer.Ref, fieldName string, limit int) ([]any, error) {
	key := cacheKey(ref, fieldName, limit)

	if vals, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return vals, nil
	}

	c.incCache("miss")

	vals, err := c.inner.Distinct(ctx, ref, fieldName, limit)
	if err != nil {
		return nil, fmt.Errorf("distinct values: %w", err)
	}

	c.putToCache(ctx, key, vals)
	return vals, nil
}

// Purge drops every cached value list. Lists cached by an earlier process may
// describe a different database file.
func (c *CachedValues) Purge(ctx context.Context) (int, error) {
	n, err := c.store.DeletePrefix(ctx, cacheKeyPrefix)
	if err != nil {
		return n, fmt.Errorf("purge value cache: %w", err)
	}
	return n, nil
}

func (c *CachedValues) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(ref layer.Ref, fieldName string, limit int) string {
	h := sha256.Sum256([]byte(fieldName))
	return cacheKeyPrefix + ref.String() + ":" + strconv.Itoa(limit) + ":" + hex.EncodeToString(h[:8])
}

func (c *CachedValues) getFromCache(ctx context.Context, key string) ([]any, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached values", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vals, err := decodeValues(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached values", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vals, true
}

func (c *CachedValues) putToCache(ctx context.Context, key string, vals []any) {
	data, err := json.Marshal(vals)
	if err != nil {
		c.logger.Warn("Failed to encode values for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache values", zap.String("key", key), zap.Error(err))
	}
}

// decodeValues keeps numbers as json.Number so they format exactly as stored.
func decodeValues(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var vals []any
	if err := dec.Decode(&vals); err != nil {
		return nil, fmt.Errorf("invalid values cache data: %w", err)
	}
	if vals == nil {
		vals = []any{}
	}
	return vals, nil
}
