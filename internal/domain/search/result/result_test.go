package result

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/record"
)

func recs(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = record.New(map[string]any{"i": i}, nil, "")
	}
	return out
}

func TestNew_Invariant(t *testing.T) {
	r := New("s1", 3, []Part{
		{Ref: "layer:0", Records: recs(5)},
		{Ref: "layer:1", Err: errors.New("boom")},
		{Ref: "layer:2", Records: recs(2)},
	})

	if r.Total() != 7 || len(r.Records()) != 7 {
		t.Fatalf("Total() = %d, len = %d, want 7", r.Total(), len(r.Records()))
	}
	sum := 0
	for _, n := range r.PerCollection() {
		sum += n
	}
	if sum != r.Total() {
		t.Errorf("sum(PerCollection) = %d, want %d", sum, r.Total())
	}
	if _, ok := r.PerCollection()["layer:1"]; ok {
		t.Error("failed layer must not be counted")
	}
	if len(r.Failures()) != 1 || r.Failures()[0].Ref != "layer:1" {
		t.Errorf("Failures() = %+v", r.Failures())
	}
	if r.ID() != "s1" || r.Generation() != 3 {
		t.Errorf("id/generation = %q/%d", r.ID(), r.Generation())
	}
}

func TestNew_StampsOriginInOrder(t *testing.T) {
	r := New("", 1, []Part{
		{Ref: "layer:4", Records: recs(2)},
		{Ref: "layer:1", Records: recs(1)},
	})
	got := r.Records()
	want := []layer.Ref{"layer:4", "layer:4", "layer:1"}
	for i, rec := range got {
		if rec.Origin() != want[i] {
			t.Errorf("record %d origin = %q, want %q", i, rec.Origin(), want[i])
		}
	}
	cols := r.Collections()
	if len(cols) != 2 || cols[0] != "layer:4" || cols[1] != "layer:1" {
		t.Errorf("Collections() = %v", cols)
	}
}

func TestNew_ZeroMatchLayerCounted(t *testing.T) {
	r := New("", 1, []Part{{Ref: "layer:0"}})
	if n, ok := r.PerCollection()["layer:0"]; !ok || n != 0 {
		t.Errorf("PerCollection = %v", r.PerCollection())
	}
	if !r.IsEmpty() {
		t.Error("expected empty")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	r := New("", 1, []Part{{Ref: "layer:0", Records: recs(1)}})
	r.PerCollection()["layer:0"] = 99
	if r.PerCollection()["layer:0"] != 1 {
		t.Error("PerCollection leaked internal map")
	}
	rs := r.Records()
	rs[0] = record.New(nil, nil, "layer:9")
	if r.Records()[0].Origin() != "layer:0" {
		t.Error("Records leaked internal slice")
	}
}

func TestEmpty(t *testing.T) {
	r := Empty("x", 2)
	if r.Total() != 0 || len(r.PerCollection()) != 0 || len(r.Failures()) != 0 {
		t.Errorf("Empty() = %+v", r)
	}
}
