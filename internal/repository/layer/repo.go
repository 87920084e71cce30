package layer

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/layersearch/internal/db"
	"github.com/kailas-cloud/layersearch/internal/domain"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/layer/field"
	"github.com/kailas-cloud/layersearch/internal/domain/record"
	"github.com/kailas-cloud/layersearch/internal/domain/search/expression"
)

// GeometryColumn holds the feature geometry; it is not exposed as an attribute.
const GeometryColumn = "geometry"

// store is the consumer interface for attribute tables (ISP).
type store interface {
	Columns(ctx context.Context, table string) ([]db.Column, error)
	Select(ctx context.Context, q *db.SelectQuery) (*db.SelectResult, error)
}

// Repo resolves layer refs to tables and queries them.
type Repo struct {
	store   store
	catalog layer.Catalog
}

// New creates a layer repository over a catalog.
func New(s store, catalog layer.Catalog) *Repo {
	return &Repo{store: s, catalog: catalog}
}

// Fields describes the attribute fields of a layer.
func (r *Repo) Fields(ctx context.Context, ref layer.Ref) ([]field.Descriptor, error) {
	table, err := r.table(ref)
	if err != nil {
		return nil, err
	}

	cols, err := r.store.Columns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", ref, err)
	}

	fields := make([]field.Descriptor, 0, len(cols))
	for _, c := range cols {
		if c.Name == GeometryColumn {
			continue
		}
		fields = append(fields, field.Reconstruct(c.Name, c.Name, field.TypeFromDecl(c.DeclType)))
	}
	return fields, nil
}

// Query returns every record of the layer matching expr, with all attributes and geometry.
func (r *Repo) Query(ctx context.Context, ref layer.Ref, expr expression.Expression) ([]record.Record, error) {
	table, err := r.table(ref)
	if err != nil {
		return nil, err
	}

	b := db.NewSelect(table)
	if !expr.IsMatchAll() {
		b = b.Where(expr.String())
	}
	q, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build query %s: %w", ref, err)
	}

	sr, err := r.store.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", ref, err)
	}

	return parseRecords(sr, ref), nil
}

// Distinct returns up to limit unique non-null values of a field, in value order.
func (r *Repo) Distinct(ctx context.Context, ref layer.Ref, fieldName string, limit int) ([]any, error) {
	table, err := r.table(ref)
	if err != nil {
		return nil, err
	}

	q, err := db.NewSelect(table).Distinct(fieldName).Limit(limit).Build()
	if err != nil {
		return nil, fmt.Errorf("build distinct %s.%s: %w", ref, fieldName, err)
	}

	sr, err := r.store.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", ref, fieldName, err)
	}

	values := make([]any, 0, len(sr.Rows))
	for _, row := range sr.Rows {
		values = append(values, row[fieldName])
	}
	return values, nil
}

func (r *Repo) table(ref layer.Ref) (string, error) {
	e, ok := r.catalog.Leaf(ref)
	if !ok {
		return "", fmt.Errorf("%s: %w", ref, domain.ErrUnknownCollection)
	}
	return e.Table(), nil
}

func parseRecords(sr *db.SelectResult, ref layer.Ref) []record.Record {
	cols := make([]string, 0, len(sr.Columns))
	for _, c := range sr.Columns {
		if c != GeometryColumn {
			cols = append(cols, c)
		}
	}

	out := make([]record.Record, 0, len(sr.Rows))
	for _, row := range sr.Rows {
		geom := row[GeometryColumn]
		attrs := make(map[string]any, len(row))
		for k, v := range row {
			if k == GeometryColumn {
				continue
			}
			attrs[k] = v
		}
		out = append(out, record.New(attrs, geom, ref).WithColumns(cols))
	}
	return out
}
