package scope

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/layersearch/internal/domain"
)

// Kind is the selector category.
type Kind string

// Selector kinds.
const (
	All        Kind = "all"
	Region     Kind = "region"
	Collection Kind = "collection"
)

// Selector names which layers a search runs against.
type Selector struct {
	kind Kind
	name string
}

// Parse validates a selector string: "all", "region:<name>" or "collection:<ref>".
// An empty string means "all".
func Parse(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == string(All) {
		return Selector{kind: All}, nil
	}
	kind, name, ok := strings.Cut(s, ":")
	if !ok {
		return Selector{}, fmt.Errorf("%w: %q", domain.ErrInvalidScope, s)
	}
	name = strings.TrimSpace(name)
	switch Kind(kind) {
	case Region, Collection:
		if name == "" {
			return Selector{}, fmt.Errorf("%w: %q has no name", domain.ErrInvalidScope, s)
		}
		return Selector{kind: Kind(kind), name: name}, nil
	default:
		return Selector{}, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidScope, kind)
	}
}

// AllLayers returns the selector for every layer.
func AllLayers() Selector { return Selector{kind: All} }

// Kind returns the selector kind.
func (s Selector) Kind() Kind { return s.kind }

// Name returns the region or collection name (empty for All).
func (s Selector) Name() string { return s.name }

func (s Selector) String() string {
	if s.kind == All || s.kind == "" {
		return string(All)
	}
	return string(s.kind) + ":" + s.name
}
