// Package export writes a search aggregate as BOM-prefixed, fully quoted CSV
// grouped by origin layer.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kailas-cloud/layersearch/internal/domain"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/record"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
)

const (
	bom       = "\uFEFF"
	lineBreak = "\r\n"
	// DateLayout formats the optional Date line.
	DateLayout = "2006-01-02 15:04"
)

// TitleFunc maps a layer ref to its display title.
type TitleFunc func(ref layer.Ref) string

// Options controls the document preamble and layer titles.
type Options struct {
	Title string
	Date  time.Time
	// Titles defaults to the encoded ref.
	Titles TitleFunc
}

// Exporter serializes aggregates.
type Exporter struct{}

// New creates an exporter.
func New() *Exporter { return &Exporter{} }

// Write emits res to w. Returns domain.ErrEmptyExport when there is nothing to write.
func (e *Exporter) Write(w io.Writer, res *result.SearchResult, opts Options) error {
	if res == nil || res.IsEmpty() {
		return domain.ErrEmptyExport
	}
	titles := opts.Titles
	if titles == nil {
		titles = func(ref layer.Ref) string { return ref.String() }
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(bom)
	if opts.Title != "" {
		bw.WriteString("Title: " + opts.Title + lineBreak)
	}
	if !opts.Date.IsZero() {
		bw.WriteString("Date: " + opts.Date.Format(DateLayout) + lineBreak)
	}

	for _, g := range groupByOrigin(res.Records()) {
		bw.WriteString(lineBreak)
		bw.WriteString("Layer: " + titles(g.ref) + lineBreak)

		header := Header(g.records[0])
		writeRow(bw, header)
		row := make([]string, len(header))
		for _, rec := range g.records {
			for i, key := range header {
				v, _ := rec.Attribute(key)
				row[i] = record.FormatValue(v)
			}
			writeRow(bw, row)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Header returns the exportable attribute keys of rec in source column order.
func Header(rec record.Record) []string {
	cols := rec.Columns()
	keys := cols[:0]
	for _, k := range cols {
		if !IsReserved(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// IsReserved reports keys never exported: internal "__" keys and geometry.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, "__") || key == "geometry"
}

func writeRow(bw *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteByte('"')
		bw.WriteString(strings.ReplaceAll(c, `"`, `""`))
		bw.WriteByte('"')
	}
	bw.WriteString(lineBreak)
}

type group struct {
	ref     layer.Ref
	records []record.Record
}

// groupByOrigin keeps groups in order of first appearance.
func groupByOrigin(recs []record.Record) []group {
	var groups []group
	index := make(map[layer.Ref]int)
	for _, rec := range recs {
		i, ok := index[rec.Origin()]
		if !ok {
			i = len(groups)
			index[rec.Origin()] = i
			groups = append(groups, group{ref: rec.Origin()})
		}
		groups[i].records = append(groups[i].records, rec)
	}
	return groups
}
