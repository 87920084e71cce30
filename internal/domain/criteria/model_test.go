package criteria

import "testing"

func TestModel_AddSetsLogical(t *testing.T) {
	m := NewModel()
	first := m.Add()
	second := m.Add()

	list := m.List()
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != first || list[0].Logical != LogicalNone {
		t.Errorf("first = %+v, want id %d with no logical", list[0], first)
	}
	if list[1].ID != second || list[1].Logical != LogicalAnd {
		t.Errorf("second = %+v, want id %d with AND", list[1], second)
	}
	if first == second {
		t.Error("ids must be unique")
	}
}

func TestModel_RemoveFirstResetsLogical(t *testing.T) {
	m := NewModel()
	a := m.Add()
	b := m.Add()
	m.Update(b, PathLogical, string(LogicalOr))

	m.Remove(a)

	list := m.List()
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	if list[0].ID != b || list[0].Logical != LogicalNone {
		t.Errorf("new first = %+v, want logical None", list[0])
	}
}

func TestModel_RemoveUnknownIsNoop(t *testing.T) {
	m := NewModel()
	m.Add()
	m.Remove(999)
	if m.Len() != 1 {
		t.Errorf("len = %d, want 1", m.Len())
	}
}

func TestModel_Update(t *testing.T) {
	m := NewModel()
	id := m.Add()
	m.Update(id, PathField, "status")
	m.Update(id, PathOperator, string(Contains))
	m.Update(id, PathValue, "Open")
	m.Update(12345, PathValue, "ignored")
	m.Update(id, Path("bogus"), "ignored")

	c := m.List()[0]
	if c.Field != "status" || c.Operator != Contains || c.Value != "Open" {
		t.Errorf("criterion = %+v", c)
	}
}

func TestModel_ListIsSnapshot(t *testing.T) {
	m := NewModel()
	id := m.Add()
	snap := m.List()
	m.Update(id, PathValue, "changed")
	if snap[0].Value != "" {
		t.Error("snapshot mutated by later update")
	}
}

func TestModel_ClearKeepsCounter(t *testing.T) {
	m := NewModel()
	first := m.Add()
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("len = %d after clear", m.Len())
	}
	next := m.Add()
	if next <= first {
		t.Errorf("id after clear = %d, want > %d", next, first)
	}
	if m.List()[0].Logical != LogicalNone {
		t.Error("first criterion after clear must have no logical")
	}
}

func TestModel_IDGeneratorInjected(t *testing.T) {
	ids := []int{100, 200}
	i := 0
	m := NewModel(WithIDGenerator(func() int {
		id := ids[i]
		i++
		return id
	}))
	if got := m.Add(); got != 100 {
		t.Errorf("first id = %d, want 100", got)
	}
	if got := m.Add(); got != 200 {
		t.Errorf("second id = %d, want 200", got)
	}
}

func TestModel_SessionsDoNotShareCounter(t *testing.T) {
	a, b := NewModel(), NewModel()
	if a.Add() != b.Add() {
		t.Error("independent models should start from the same id")
	}
}

func TestOperator_Sets(t *testing.T) {
	if _, ok := Equals.StringOp(); !ok {
		t.Error("equals must be a string op")
	}
	if _, ok := Equals.NumericOp(); !ok {
		t.Error("equals must be a numeric op")
	}
	if _, ok := Contains.NumericOp(); ok {
		t.Error("contains must not be numeric")
	}
	if _, ok := Greater.StringOp(); ok {
		t.Error("greater must not be a string op")
	}
	if Operator("like").IsValid() {
		t.Error("unknown operator reported valid")
	}
}
