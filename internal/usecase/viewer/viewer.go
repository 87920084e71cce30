// Package viewer pages and filters a search result in memory.
// It never queries a layer.
package viewer

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/layersearch/internal/domain/record"
	"github.com/kailas-cloud/layersearch/internal/domain/search/page"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
)

// Viewer is the paginated, filterable view of one aggregate. Safe for concurrent use.
type Viewer struct {
	mu      sync.Mutex
	res     *result.SearchResult
	all     []record.Record
	visible []record.Record
	term    string
	index   int
	size    int
	fold    cases.Caser
}

// New creates an empty viewer; size <= 0 uses page.DefaultSize.
func New(size int) *Viewer {
	if size <= 0 {
		size = page.DefaultSize
	}
	return &Viewer{index: 1, size: size, fold: cases.Fold()}
}

// SetAggregate shows res from page 1 with no filter.
func (v *Viewer) SetAggregate(res *result.SearchResult) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.res = res
	v.all = nil
	if res != nil {
		v.all = res.Records()
	}
	v.visible = v.all
	v.term = ""
	v.index = 1
}

// Aggregate returns the aggregate being viewed (nil before the first search).
func (v *Viewer) Aggregate() *result.SearchResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.res
}

// NextPage advances one page; no-op on the last page.
func (v *Viewer) NextPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pageLocked().HasNext() {
		v.index++
	}
}

// PreviousPage goes back one page; no-op on the first page.
func (v *Viewer) PreviousPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pageLocked().HasPrevious() {
		v.index--
	}
}

// GoTo jumps to a page, clamped to the valid range.
func (v *Viewer) GoTo(index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.index = index
	v.index = v.pageLocked().Index
}

// SetPageSize changes the page size and returns to page 1. Non-positive sizes are ignored.
func (v *Viewer) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.size = size
	v.index = 1
}

// Filter keeps records with any attribute value containing term, ignoring case.
// An empty term shows every record. The current page is kept when still valid.
func (v *Viewer) Filter(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.term = term
	if term == "" {
		v.visible = v.all
	} else {
		needle := v.fold.String(term)
		v.visible = make([]record.Record, 0, len(v.all))
		for _, rec := range v.all {
			if v.matches(rec, needle) {
				v.visible = append(v.visible, rec)
			}
		}
	}
	v.index = v.pageLocked().Index
}

// Term returns the active filter term.
func (v *Viewer) Term() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.term
}

// Page describes the current page over the visible records.
func (v *Viewer) Page() page.Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageLocked()
}

// Visible returns the records on the current page.
func (v *Viewer) Visible() []record.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	start, end := v.pageLocked().Bounds()
	out := make([]record.Record, end-start)
	copy(out, v.visible[start:end])
	return out
}

// VisibleCount returns the number of records passing the filter.
func (v *Viewer) VisibleCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visible)
}

func (v *Viewer) pageLocked() page.Page {
	return page.New(v.index, v.size, len(v.visible))
}

func (v *Viewer) matches(rec record.Record, needle string) bool {
	for _, val := range rec.Attributes() {
		if val == nil {
			continue
		}
		if strings.Contains(v.fold.String(record.FormatValue(val)), needle) {
			return true
		}
	}
	return false
}
