package config

import (
	"fmt"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
)

// BuildCatalog converts the configured tree into a domain catalog.
// Entries are assumed validated.
func BuildCatalog(entries []CatalogEntry) (layer.Catalog, error) {
	out := make([]layer.Entry, 0, len(entries))
	for i, e := range entries {
		entry, err := e.build()
		if err != nil {
			return layer.Catalog{}, fmt.Errorf("catalog[%d]: %w", i, err)
		}
		out = append(out, entry)
	}
	return layer.NewCatalog(out)
}

func (e CatalogEntry) build() (layer.Entry, error) {
	if e.Layer != nil {
		return layer.NewLeaf(*e.Layer, e.Title, e.Table)
	}
	if e.Region == nil {
		return layer.Entry{}, fmt.Errorf("one of layer or region is required")
	}
	children := make([]layer.Entry, 0, len(e.Layers))
	for _, c := range e.Layers {
		child, err := c.build()
		if err != nil {
			return layer.Entry{}, err
		}
		children = append(children, child)
	}
	return layer.NewRegion(*e.Region, e.Title, children)
}
