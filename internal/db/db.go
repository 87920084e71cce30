package db

import (
	"context"
	"time"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheStore holds expiring blobs under namespaced keys (Redis).
type CacheStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Column describes one column of an attribute table.
type Column struct {
	Name     string
	DeclType string
}

// TableReader provides read access to attribute tables (SQLite).
type TableReader interface {
	Pinger
	Columns(ctx context.Context, table string) ([]Column, error)
	Select(ctx context.Context, q *SelectQuery) (*SelectResult, error)
}
