package page

// DefaultSize is the page size used when none is configured.
const DefaultSize = 10

// Page describes one window over a record list.
type Page struct {
	Index      int `json:"index"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total"`
}

// New computes a page for total records, clamping index into [1, max(TotalPages, 1)].
// A non-positive size falls back to DefaultSize.
func New(index, size, total int) Page {
	if size <= 0 {
		size = DefaultSize
	}
	if total < 0 {
		total = 0
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	if index > pages {
		index = pages
	}
	if index < 1 {
		index = 1
	}
	return Page{Index: index, Size: size, TotalPages: pages, Total: total}
}

// Bounds returns the half-open slice [start, end) shown by the page.
func (p Page) Bounds() (start, end int) {
	if p.TotalPages == 0 {
		return 0, 0
	}
	start = (p.Index - 1) * p.Size
	end = start + min(p.Size, p.Total-start)
	return start, end
}

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Index < p.TotalPages }

// HasPrevious reports whether a preceding page exists.
func (p Page) HasPrevious() bool { return p.Index > 1 }
