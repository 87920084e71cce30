package layer

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
)

// tableLister lists attribute tables.
type tableLister interface {
	Tables(ctx context.Context) ([]string, error)
}

// Discover builds a flat catalog with one layer per table, indexed in listing order.
func Discover(ctx context.Context, s tableLister) (layer.Catalog, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return layer.Catalog{}, fmt.Errorf("list tables: %w", err)
	}

	entries := make([]layer.Entry, 0, len(tables))
	for i, t := range tables {
		e, err := layer.NewLeaf(i, t, t)
		if err != nil {
			return layer.Catalog{}, err
		}
		entries = append(entries, e)
	}
	return layer.NewCatalog(entries)
}
