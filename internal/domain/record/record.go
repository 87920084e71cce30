package record

import (
	"slices"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
)

// Record is a single feature returned by a layer query, stamped with its origin.
type Record struct {
	attributes map[string]any
	geometry   any
	origin     layer.Ref
	columns    []string
}

// New creates a record. Attributes are not copied; callers hand over ownership.
func New(attributes map[string]any, geometry any, origin layer.Ref) Record {
	if attributes == nil {
		attributes = map[string]any{}
	}
	return Record{attributes: attributes, geometry: geometry, origin: origin}
}

// Attributes returns the attribute map. Treat as read-only.
func (r Record) Attributes() map[string]any { return r.attributes }

// Attribute returns a single attribute value.
func (r Record) Attribute(name string) (any, bool) {
	v, ok := r.attributes[name]
	return v, ok
}

// Geometry returns the opaque geometry payload (nil when absent).
func (r Record) Geometry() any { return r.geometry }

// Origin returns the layer the record came from.
func (r Record) Origin() layer.Ref { return r.origin }

// WithOrigin returns a copy stamped with the given origin.
func (r Record) WithOrigin(ref layer.Ref) Record {
	r.origin = ref
	return r
}

// WithColumns returns a copy that lists its attributes in the order of cols,
// usually the source table's column order. cols is shared, not copied.
func (r Record) WithColumns(cols []string) Record {
	r.columns = cols
	return r
}

// Columns returns the attribute names in source column order. Attributes the
// order does not mention follow in sorted order; with no order, all are sorted.
func (r Record) Columns() []string {
	out := make([]string, 0, len(r.attributes))
	listed := make(map[string]struct{}, len(r.columns))
	for _, c := range r.columns {
		if _, ok := r.attributes[c]; !ok {
			continue
		}
		if _, dup := listed[c]; dup {
			continue
		}
		listed[c] = struct{}{}
		out = append(out, c)
	}
	rest := make([]string, 0, len(r.attributes)-len(out))
	for k := range r.attributes {
		if _, ok := listed[k]; !ok {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}
