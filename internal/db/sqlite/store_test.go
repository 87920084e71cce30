package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/layersearch/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Config{Path: filepath.Join(t.TempDir(), "layers.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Exec(ctx, `CREATE TABLE parks (name TEXT, area REAL, kind TEXT, geometry TEXT)`))
	for _, r := range []struct {
		name string
		area float64
		kind string
	}{
		{"Oak Park", 12.5, "city"},
		{"Big oak", 3, "forest"},
		{"Pine Hill", 150, "city"},
	} {
		require.NoError(t, s.Exec(ctx,
			`INSERT INTO parks (name, area, kind, geometry) VALUES (?, ?, ?, 'POINT(0 0)')`,
			r.name, r.area, r.kind))
	}
	return s
}

func mustBuild(t *testing.T, b *db.SelectBuilder) *db.SelectQuery {
	t.Helper()
	q, err := b.Build()
	require.NoError(t, err)
	return q
}

func names(res *db.SelectResult) []string {
	out := make([]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		out = append(out, r["name"].(string))
	}
	return out
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore(Config{})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestColumns(t *testing.T) {
	s := newTestStore(t)
	cols, err := s.Columns(context.Background(), "parks")
	require.NoError(t, err)
	assert.Equal(t, []db.Column{
		{Name: "name", DeclType: "TEXT"},
		{Name: "area", DeclType: "REAL"},
		{Name: "kind", DeclType: "TEXT"},
		{Name: "geometry", DeclType: "TEXT"},
	}, cols)
}

func TestColumns_UnknownTable(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Columns(context.Background(), "missing")
	assert.True(t, errors.Is(err, db.ErrTableNotFound))
}

func TestTables(t *testing.T) {
	s := newTestStore(t)
	tables, err := s.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"parks"}, tables)
}

func TestSelect_All(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Select(context.Background(), mustBuild(t, db.NewSelect("parks").Where("1=1")))
	require.NoError(t, err)
	assert.Equal(t, []string{"Oak Park", "Big oak", "Pine Hill"}, names(res))
	assert.Equal(t, []string{"name", "area", "kind", "geometry"}, res.Columns)
	assert.Equal(t, 12.5, res.Rows[0]["area"])
}

func TestSelect_UpperFoldsCase(t *testing.T) {
	s := newTestStore(t)
	q := mustBuild(t, db.NewSelect("parks").Where("UPPER(name) LIKE UPPER('%oak%')"))
	res, err := s.Select(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oak Park", "Big oak"}, names(res))
}

func TestSelect_LikeIsCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	q := mustBuild(t, db.NewSelect("parks").Where("name LIKE '%oak%'"))
	res, err := s.Select(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Big oak"}, names(res))
}

func TestSelect_NumericAndOr(t *testing.T) {
	s := newTestStore(t)
	q := mustBuild(t, db.NewSelect("parks").Where("area > 100 OR kind = 'forest'"))
	res, err := s.Select(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Big oak", "Pine Hill"}, names(res))
}

func TestSelect_MatchNone(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Select(context.Background(), mustBuild(t, db.NewSelect("parks").Where("1=0")))
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestSelect_Distinct(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Exec(context.Background(), `INSERT INTO parks (name) VALUES ('No kind')`))

	res, err := s.Select(context.Background(), mustBuild(t, db.NewSelect("parks").Distinct("kind")))
	require.NoError(t, err)
	var kinds []any
	for _, r := range res.Rows {
		kinds = append(kinds, r["kind"])
	}
	assert.Equal(t, []any{"city", "forest"}, kinds)
}

func TestSelect_Limit(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Select(context.Background(), mustBuild(t, db.NewSelect("parks").Limit(2)))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
}

func TestSelect_UnknownTable(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Select(context.Background(), mustBuild(t, db.NewSelect("missing")))
	assert.True(t, errors.Is(err, db.ErrTableNotFound))

	var dbErr *db.Error
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, db.OpSelect, dbErr.Op)
}

func TestSelect_BadPredicate(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Select(context.Background(), mustBuild(t, db.NewSelect("parks").Where("nope >")))
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	s, err := NewStore(Config{Path: ":memory:"})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Exec(ctx, `CREATE TABLE t (v TEXT)`))
	require.NoError(t, s.Exec(ctx, `INSERT INTO t VALUES ('x')`))
	res, err := s.Select(ctx, mustBuild(t, db.NewSelect("t")))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}
