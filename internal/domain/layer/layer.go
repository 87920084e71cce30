package layer

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes leaf layers from region groups.
type Kind string

const (
	// KindLayer is a queryable leaf collection.
	KindLayer Kind = "layer"
	// KindRegion is a named group of layers; never queried directly.
	KindRegion Kind = "region"
)

// Ref identifies a catalog entry: "layer:<index>" or "region:<index>".
type Ref string

// NewRef builds a ref from its kind and index.
func NewRef(kind Kind, index int) Ref {
	return Ref(string(kind) + ":" + strconv.Itoa(index))
}

// ParseRef validates an encoded ref.
func ParseRef(s string) (Ref, error) {
	kind, idx, ok := strings.Cut(s, ":")
	if !ok {
		return "", fmt.Errorf("ref %q: missing kind prefix", s)
	}
	if Kind(kind) != KindLayer && Kind(kind) != KindRegion {
		return "", fmt.Errorf("ref %q: unknown kind %q", s, kind)
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return "", fmt.Errorf("ref %q: index must be a non-negative integer", s)
	}
	return NewRef(Kind(kind), n), nil
}

// Kind returns the ref kind.
func (r Ref) Kind() Kind {
	kind, _, _ := strings.Cut(string(r), ":")
	return Kind(kind)
}

// Index returns the numeric index, or -1 for a malformed ref.
func (r Ref) Index() int {
	_, idx, _ := strings.Cut(string(r), ":")
	n, err := strconv.Atoi(idx)
	if err != nil {
		return -1
	}
	return n
}

func (r Ref) String() string { return string(r) }

// Entry is a catalog node: a leaf layer backed by a table, or a region grouping leaves.
type Entry struct {
	ref      Ref
	title    string
	table    string
	children []Entry
}

// NewLeaf validates and creates a leaf layer entry.
func NewLeaf(index int, title, table string) (Entry, error) {
	if index < 0 {
		return Entry{}, fmt.Errorf("layer index must be non-negative")
	}
	if table == "" {
		return Entry{}, fmt.Errorf("layer %d: table is required", index)
	}
	if title == "" {
		title = table
	}
	return Entry{ref: NewRef(KindLayer, index), title: title, table: table}, nil
}

// NewRegion validates and creates a region. Children must be leaves.
func NewRegion(index int, title string, children []Entry) (Entry, error) {
	if index < 0 {
		return Entry{}, fmt.Errorf("region index must be non-negative")
	}
	if title == "" {
		return Entry{}, fmt.Errorf("region %d: title is required", index)
	}
	for _, c := range children {
		if c.IsGroup() {
			return Entry{}, fmt.Errorf("region %q: nested regions are not supported", title)
		}
	}
	return Entry{ref: NewRef(KindRegion, index), title: title, children: children}, nil
}

// Ref returns the encoded ref.
func (e Entry) Ref() Ref { return e.ref }

// Title returns the display title.
func (e Entry) Title() string { return e.title }

// Table returns the backing table (empty for regions).
func (e Entry) Table() string { return e.table }

// Children returns the leaves of a region.
func (e Entry) Children() []Entry { return e.children }

// IsGroup reports whether the entry is a region.
func (e Entry) IsGroup() bool { return e.ref.Kind() == KindRegion }

// Catalog is the ordered registry of top-level layers and regions.
type Catalog struct {
	entries []Entry
	leaves  map[Ref]Entry
	titles  map[Ref]string
}

// NewCatalog validates the tree: region refs are unique, and a layer index reachable
// through several paths must always point at the same table.
func NewCatalog(entries []Entry) (Catalog, error) {
	c := Catalog{
		entries: entries,
		leaves:  make(map[Ref]Entry),
		titles:  make(map[Ref]string),
	}
	addLeaf := func(e Entry) error {
		if prev, ok := c.leaves[e.ref]; ok && prev.table != e.table {
			return fmt.Errorf("%s bound to both %q and %q", e.ref, prev.table, e.table)
		}
		c.leaves[e.ref] = e
		c.titles[e.ref] = e.title
		return nil
	}
	for _, e := range entries {
		if !e.IsGroup() {
			if err := addLeaf(e); err != nil {
				return Catalog{}, err
			}
			continue
		}
		if _, dup := c.titles[e.ref]; dup {
			return Catalog{}, fmt.Errorf("duplicate region %s", e.ref)
		}
		c.titles[e.ref] = e.title
		for _, child := range e.children {
			if err := addLeaf(child); err != nil {
				return Catalog{}, err
			}
		}
	}
	return c, nil
}

// Entries returns the top-level entries in catalog order.
func (c Catalog) Entries() []Entry { return c.entries }

// Leaf looks up a leaf layer by ref.
func (c Catalog) Leaf(ref Ref) (Entry, bool) {
	e, ok := c.leaves[ref]
	return e, ok
}

// Title returns the display title for a layer or region ref.
func (c Catalog) Title(ref Ref) (string, bool) {
	t, ok := c.titles[ref]
	return t, ok
}
