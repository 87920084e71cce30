package layersearch

import (
	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
	"github.com/kailas-cloud/layersearch/internal/usecase/export"
)

// Operator is a comparison token.
type Operator string

// Operator constants.
const (
	OpContains     Operator = Operator(criteria.Contains)
	OpEquals       Operator = Operator(criteria.Equals)
	OpStarts       Operator = Operator(criteria.Starts)
	OpEnds         Operator = Operator(criteria.Ends)
	OpNotContains  Operator = Operator(criteria.NotContains)
	OpNotEquals    Operator = Operator(criteria.NotEquals)
	OpGreater      Operator = Operator(criteria.Greater)
	OpLess         Operator = Operator(criteria.Less)
	OpGreaterEqual Operator = Operator(criteria.GreaterEqual)
	OpLessEqual    Operator = Operator(criteria.LessEqual)
)

// Criterion is one condition. Or joins it to the previous criterion with OR
// instead of AND; it is ignored on the first criterion.
type Criterion struct {
	Field    string
	Operator Operator
	Value    string
	Or       bool
}

// Where builds a criterion joined with AND.
func Where(field string, op Operator, value string) Criterion {
	return Criterion{Field: field, Operator: op, Value: value}
}

// Or builds a criterion joined with OR.
func Or(field string, op Operator, value string) Criterion {
	return Criterion{Field: field, Operator: op, Value: value, Or: true}
}

// Layer is a catalog entry. Regions have Children and no Table.
type Layer struct {
	Ref      string
	Title    string
	Table    string
	Children []Layer
}

// Record is a matched feature with its originating layer.
type Record struct {
	Layer      string
	LayerTitle string
	Attributes map[string]any
	Geometry   any
}

// LayerFailure is a layer that could not be searched.
type LayerFailure struct {
	Layer string
	Err   error
}

// Result is the merged outcome of one search.
type Result struct {
	ID       string
	Total    int
	PerLayer map[string]int
	Records  []Record
	Failures []LayerFailure

	raw *result.SearchResult
}

func toInternalCriteria(cs []Criterion) []criteria.Criterion {
	out := make([]criteria.Criterion, len(cs))
	for i, c := range cs {
		logical := criteria.LogicalAnd
		if c.Or {
			logical = criteria.LogicalOr
		}
		if i == 0 {
			logical = criteria.LogicalNone
		}
		out[i] = criteria.Criterion{
			ID:       i + 1,
			Field:    c.Field,
			Operator: criteria.Operator(c.Operator),
			Value:    c.Value,
			Logical:  logical,
		}
	}
	return out
}

func fromInternalEntries(entries []layer.Entry) []Layer {
	out := make([]Layer, len(entries))
	for i, e := range entries {
		out[i] = Layer{Ref: e.Ref().String(), Title: e.Title(), Table: e.Table()}
		if e.IsGroup() {
			out[i].Children = fromInternalEntries(e.Children())
		}
	}
	return out
}

func fromInternalResult(res *result.SearchResult, title export.TitleFunc) *Result {
	out := &Result{
		ID:       res.ID(),
		Total:    res.Total(),
		PerLayer: make(map[string]int, len(res.Collections())),
		raw:      res,
	}
	for ref, n := range res.PerCollection() {
		out.PerLayer[ref.String()] = n
	}
	out.Records = make([]Record, 0, res.Total())
	for _, rec := range res.Records() {
		out.Records = append(out.Records, Record{
			Layer:      rec.Origin().String(),
			LayerTitle: title(rec.Origin()),
			Attributes: rec.Attributes(),
			Geometry:   rec.Geometry(),
		})
	}
	for _, f := range res.Failures() {
		out.Failures = append(out.Failures, LayerFailure{Layer: f.Ref.String(), Err: f.Err})
	}
	return out
}
