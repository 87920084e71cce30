package scope

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/domain"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
	"github.com/kailas-cloud/layersearch/internal/logger"
)

// Resolver expands scope selectors into the leaf layers of a catalog.
type Resolver struct {
	catalog layer.Catalog
}

// New creates a resolver over a catalog.
func New(catalog layer.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the leaf refs covered by sel, in catalog order without duplicates.
// A name that matches nothing yields an empty list and no error.
func (r *Resolver) Resolve(ctx context.Context, sel domscope.Selector) ([]layer.Ref, error) {
	var refs []layer.Ref
	switch sel.Kind() {
	case domscope.All:
		refs = r.all()
	case domscope.Region:
		refs = r.region(sel.Name())
	case domscope.Collection:
		refs = r.collection(sel.Name())
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidScope, sel)
	}

	if len(refs) == 0 {
		logger.FromContext(ctx).Debug("Scope resolved to no layers", zap.Stringer("scope", sel))
		return []layer.Ref{}, nil
	}
	return refs, nil
}

// Title returns the display title of a ref, falling back to the encoded ref.
func (r *Resolver) Title(ref layer.Ref) string {
	if t, ok := r.catalog.Title(ref); ok {
		return t
	}
	return ref.String()
}

// Catalog exposes the underlying catalog for listing.
func (r *Resolver) Catalog() layer.Catalog { return r.catalog }

func (r *Resolver) all() []layer.Ref {
	var d dedup
	for _, e := range r.catalog.Entries() {
		if !e.IsGroup() {
			d.add(e.Ref())
			continue
		}
		for _, c := range e.Children() {
			d.add(c.Ref())
		}
	}
	return d.refs
}

func (r *Resolver) region(name string) []layer.Ref {
	for _, e := range r.catalog.Entries() {
		if !e.IsGroup() || !matches(e, name) {
			continue
		}
		var d dedup
		for _, c := range e.Children() {
			d.add(c.Ref())
		}
		return d.refs
	}
	return nil
}

func (r *Resolver) collection(name string) []layer.Ref {
	for _, e := range r.catalog.Entries() {
		if !e.IsGroup() {
			if matches(e, name) {
				return []layer.Ref{e.Ref()}
			}
			continue
		}
		for _, c := range e.Children() {
			if matches(c, name) {
				return []layer.Ref{c.Ref()}
			}
		}
	}
	return nil
}

// matches accepts the encoded ref, the bare index, or the title.
func matches(e layer.Entry, name string) bool {
	return name == e.Ref().String() ||
		name == strconv.Itoa(e.Ref().Index()) ||
		name == e.Title()
}

type dedup struct {
	seen map[layer.Ref]struct{}
	refs []layer.Ref
}

func (d *dedup) add(ref layer.Ref) {
	if d.seen == nil {
		d.seen = make(map[layer.Ref]struct{})
	}
	if _, ok := d.seen[ref]; ok {
		return
	}
	d.seen[ref] = struct{}{}
	d.refs = append(d.refs, ref)
}
