package field

import (
	"fmt"
	"strings"
)

// Type is the declared value type of a layer field.
type Type string

// Field type constants.
const (
	String  Type = "string"
	Integer Type = "integer"
	Double  Type = "double"
	// Other covers dates, blobs, geometry and anything not comparable as text or number.
	Other Type = "other"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == String || t == Integer || t == Double || t == Other
}

// IsNumeric reports whether the type holds numbers.
func (t Type) IsNumeric() bool { return t == Integer || t == Double }

// TypeFromDecl maps a SQL column declaration (INTEGER, REAL, TEXT...) to a field type
// using SQLite affinity rules.
func TypeFromDecl(decl string) Type {
	d := strings.ToUpper(decl)
	switch {
	case strings.Contains(d, "INT"):
		return Integer
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"):
		return String
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"),
		strings.Contains(d, "NUMERIC"), strings.Contains(d, "DECIMAL"):
		return Double
	default:
		return Other
	}
}

// Descriptor is an immutable value object describing a queryable field of a layer.
type Descriptor struct {
	name      string
	alias     string
	fieldType Type
}

// New validates and creates a Descriptor. Alias defaults to the name.
func New(name, alias string, ft Type) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, fmt.Errorf("field name is required")
	}
	if !ft.IsValid() {
		return Descriptor{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	if alias == "" {
		alias = name
	}
	return Descriptor{name: name, alias: alias, fieldType: ft}, nil
}

// Reconstruct creates a Descriptor without validation (storage hydration).
func Reconstruct(name, alias string, ft Type) Descriptor {
	return Descriptor{name: name, alias: alias, fieldType: ft}
}

// Name returns the field name.
func (d Descriptor) Name() string { return d.name }

// Alias returns the display alias.
func (d Descriptor) Alias() string { return d.alias }

// FieldType returns the declared type.
func (d Descriptor) FieldType() Type { return d.fieldType }

// Find looks up a descriptor by name.
func Find(fields []Descriptor, name string) (Descriptor, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	return Descriptor{}, false
}
