package result

import (
	"maps"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/record"
)

// Part is the outcome of querying one layer. Err non-nil means the layer failed
// and contributes no records.
type Part struct {
	Ref     layer.Ref
	Records []record.Record
	Err     error
}

// Failure records an isolated per-layer failure.
type Failure struct {
	Ref layer.Ref
	Err error
}

// SearchResult is the immutable aggregate of one search.
// Total() == sum(PerCollection()) == len(Records()).
type SearchResult struct {
	id            string
	generation    uint64
	records       []record.Record
	perCollection map[layer.Ref]int
	collections   []layer.Ref
	failures      []Failure
}

// New concatenates parts in the given order, stamping each record with its
// part's ref. Failed parts are listed in Failures and excluded from counts.
func New(id string, generation uint64, parts []Part) *SearchResult {
	r := &SearchResult{
		id:            id,
		generation:    generation,
		perCollection: make(map[layer.Ref]int, len(parts)),
	}
	total := 0
	for _, p := range parts {
		if p.Err == nil {
			total += len(p.Records)
		}
	}
	r.records = make([]record.Record, 0, total)

	for _, p := range parts {
		if p.Err != nil {
			r.failures = append(r.failures, Failure{Ref: p.Ref, Err: p.Err})
			continue
		}
		for _, rec := range p.Records {
			r.records = append(r.records, rec.WithOrigin(p.Ref))
		}
		if _, seen := r.perCollection[p.Ref]; !seen {
			r.collections = append(r.collections, p.Ref)
		}
		r.perCollection[p.Ref] += len(p.Records)
	}
	return r
}

// Empty returns an aggregate with no records, e.g. for a scope that resolved to nothing.
func Empty(id string, generation uint64) *SearchResult {
	return New(id, generation, nil)
}

// ID returns the search identifier.
func (r *SearchResult) ID() string { return r.id }

// Generation returns the session generation the search ran under.
func (r *SearchResult) Generation() uint64 { return r.generation }

// Records returns the aggregated records in resolution order.
func (r *SearchResult) Records() []record.Record {
	out := make([]record.Record, len(r.records))
	copy(out, r.records)
	return out
}

// Total returns the number of aggregated records.
func (r *SearchResult) Total() int { return len(r.records) }

// IsEmpty reports whether the aggregate has no records.
func (r *SearchResult) IsEmpty() bool { return len(r.records) == 0 }

// PerCollection returns record counts keyed by successful layer.
func (r *SearchResult) PerCollection() map[layer.Ref]int {
	return maps.Clone(r.perCollection)
}

// Collections returns the successful layers in resolution order.
func (r *SearchResult) Collections() []layer.Ref {
	out := make([]layer.Ref, len(r.collections))
	copy(out, r.collections)
	return out
}

// Failures returns the isolated per-layer failures.
func (r *SearchResult) Failures() []Failure {
	out := make([]Failure, len(r.failures))
	copy(out, r.failures)
	return out
}
