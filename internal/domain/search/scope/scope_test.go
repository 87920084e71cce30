package scope

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/layersearch/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		wantKind Kind
		wantName string
		wantErr  bool
	}{
		{"all", All, "", false},
		{"", All, "", false},
		{"region:Parks", Region, "Parks", false},
		{"region: North Shore ", Region, "North Shore", false},
		{"collection:layer:3", Collection, "layer:3", false},
		{"collection:Roads", Collection, "Roads", false},
		{"region:", "", "", true},
		{"layer:3", "", "", true},
		{"everything", "", "", true},
	}
	for _, tt := range tests {
		sel, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidScope) {
				t.Errorf("Parse(%q) err = %v, want ErrInvalidScope", tt.in, err)
			}
			continue
		}
		if sel.Kind() != tt.wantKind || sel.Name() != tt.wantName {
			t.Errorf("Parse(%q) = %s/%q, want %s/%q", tt.in, sel.Kind(), sel.Name(), tt.wantKind, tt.wantName)
		}
	}
}

func TestSelector_String(t *testing.T) {
	sel, _ := Parse("collection:layer:2")
	if sel.String() != "collection:layer:2" {
		t.Errorf("String() = %q", sel)
	}
	if AllLayers().String() != "all" {
		t.Errorf("AllLayers().String() = %q", AllLayers())
	}
}
