package layer

import (
	"strings"
	"testing"
)

func mustLeaf(t *testing.T, idx int, title, table string) Entry {
	t.Helper()
	e, err := NewLeaf(idx, title, table)
	if err != nil {
		t.Fatalf("NewLeaf: %v", err)
	}
	return e
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in      string
		want    Ref
		wantErr bool
	}{
		{"layer:3", "layer:3", false},
		{"region:0", "region:0", false},
		{"layer:03", "layer:3", false},
		{"layer", "", true},
		{"table:1", "", true},
		{"layer:-1", "", true},
		{"layer:x", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRef(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRef(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRef_KindIndex(t *testing.T) {
	r := NewRef(KindRegion, 7)
	if r.Kind() != KindRegion || r.Index() != 7 {
		t.Errorf("got kind=%q index=%d", r.Kind(), r.Index())
	}
	if Ref("garbage").Index() != -1 {
		t.Error("malformed ref should have index -1")
	}
}

func TestNewRegion_RejectsNesting(t *testing.T) {
	inner, err := NewRegion(1, "inner", []Entry{mustLeaf(t, 0, "a", "a")})
	if err != nil {
		t.Fatalf("NewRegion: %v", err)
	}
	if _, err := NewRegion(2, "outer", []Entry{inner}); err == nil {
		t.Fatal("expected nesting error")
	}
}

func TestNewLeaf_TitleDefaultsToTable(t *testing.T) {
	e := mustLeaf(t, 4, "", "roads")
	if e.Title() != "roads" {
		t.Errorf("Title() = %q, want roads", e.Title())
	}
	if e.IsGroup() {
		t.Error("leaf reported as group")
	}
}

func TestNewCatalog_Titles(t *testing.T) {
	region, _ := NewRegion(0, "Parks", []Entry{mustLeaf(t, 1, "City Parks", "city_parks")})
	cat, err := NewCatalog([]Entry{region, mustLeaf(t, 2, "Roads", "roads")})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if title, _ := cat.Title("region:0"); title != "Parks" {
		t.Errorf("region title = %q", title)
	}
	if title, _ := cat.Title("layer:1"); title != "City Parks" {
		t.Errorf("nested leaf title = %q", title)
	}
	if _, ok := cat.Leaf("region:0"); ok {
		t.Error("region must not be a leaf")
	}
}

func TestNewCatalog_ConflictingTable(t *testing.T) {
	region, _ := NewRegion(0, "A", []Entry{mustLeaf(t, 1, "x", "t1")})
	_, err := NewCatalog([]Entry{region, mustLeaf(t, 1, "x", "t2")})
	if err == nil || !strings.Contains(err.Error(), "bound to both") {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestNewCatalog_SharedLeafAllowed(t *testing.T) {
	region, _ := NewRegion(0, "A", []Entry{mustLeaf(t, 1, "x", "t1")})
	if _, err := NewCatalog([]Entry{region, mustLeaf(t, 1, "x", "t1")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
