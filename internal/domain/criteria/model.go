package criteria

import "sync"

// Path names the criterion attribute changed by Update.
type Path string

// Updatable attributes.
const (
	PathField    Path = "field"
	PathOperator Path = "operator"
	PathValue    Path = "value"
	PathLogical  Path = "logical"
)

// Model is the ordered, mutable criteria list of one search session.
// Safe for concurrent use.
type Model struct {
	mu     sync.Mutex
	items  []Criterion
	nextID func() int
}

// Option configures a Model.
type Option func(*Model)

// WithIDGenerator replaces the default counter.
func WithIDGenerator(gen func() int) Option {
	return func(m *Model) { m.nextID = gen }
}

// NewModel creates an empty criteria model with its own id counter.
func NewModel(opts ...Option) *Model {
	m := &Model{}
	counter := 0
	m.nextID = func() int {
		counter++
		return counter
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add appends an empty criterion and returns its id.
func (m *Model) Add() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := Criterion{ID: m.nextID(), Operator: Equals, Logical: LogicalAnd}
	if len(m.items) == 0 {
		c.Logical = LogicalNone
	}
	m.items = append(m.items, c)
	return c.ID
}

// Remove deletes a criterion. Unknown ids are ignored.
func (m *Model) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	if i == 0 && len(m.items) > 0 {
		m.items[0].Logical = LogicalNone
	}
}

// Update sets one attribute of one criterion. Unknown ids or paths are ignored.
func (m *Model) Update(id int, path Path, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return
	}
	c := &m.items[i]
	switch path {
	case PathField:
		c.Field = value
	case PathOperator:
		c.Operator = Operator(value)
	case PathValue:
		c.Value = value
	case PathLogical:
		c.Logical = Logical(value)
	}
}

// List returns a snapshot in insertion order.
func (m *Model) List() []Criterion {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Criterion, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of criteria.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Clear removes every criterion. Ids keep increasing.
func (m *Model) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}

func (m *Model) indexOf(id int) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}
