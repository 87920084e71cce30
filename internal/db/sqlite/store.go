package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite" // cgo-free driver

	"github.com/kailas-cloud/layersearch/internal/db"
)

// Compile-time check: Store implements db.TableReader.
var _ db.TableReader = (*Store)(nil)

const memoryPath = ":memory:"

// pragmas are applied by the driver on every new pooled connection.
// case_sensitive_like keeps LIKE exact so that only UPPER() folds case.
var pragmas = []string{
	"case_sensitive_like(1)",
	"busy_timeout(5000)",
}

// Config holds connection parameters for a SQLite layer store.
type Config struct {
	Path         string
	MaxOpenConns int
}

// Store reads attribute tables from a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the database at cfg.Path.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	conn, err := sql.Open("sqlite", dsn(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	switch {
	case cfg.Path == memoryPath:
		// each connection would otherwise see its own empty database
		conn.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Store{db: conn, path: cfg.Path}, nil
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	if path == memoryPath {
		return "file::memory:?" + q.Encode()
	}
	return "file:" + path + "?" + q.Encode()
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Exec runs a statement that returns no rows (schema setup, seeding).
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	return nil
}

// Tables lists the user tables in name order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' ORDER BY name`)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return names, nil
}

// Columns returns the declared columns of a table in definition order.
func (s *Store) Columns(ctx context.Context, table string) ([]db.Column, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, type FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, &db.Error{Op: db.OpColumns, Err: err}
	}
	defer rows.Close()

	var cols []db.Column
	for rows.Next() {
		var c db.Column
		if err := rows.Scan(&c.Name, &c.DeclType); err != nil {
			return nil, &db.Error{Op: db.OpColumns, Err: err}
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpColumns, Err: err}
	}
	if len(cols) == 0 {
		return nil, &db.Error{Op: db.OpColumns, Err: fmt.Errorf("%s: %w", table, db.ErrTableNotFound)}
	}
	return cols, nil
}

// Select runs q and materializes every row.
func (s *Store) Select(ctx context.Context, q *db.SelectQuery) (*db.SelectResult, error) {
	if err := q.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	rows, err := s.db.QueryContext(ctx, q.SQL())
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: classify(err, q.Table)}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	res := &db.SelectResult{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		row := make(db.Row, len(cols))
		for i, c := range cols {
			row[c] = normalize(vals[i])
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return res, nil
}

// normalize maps driver values onto the JSON-friendly set the domain expects.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func classify(err error, table string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return errors.Join(fmt.Errorf("%s: %w", table, db.ErrTableNotFound), err)
	}
	return err
}
