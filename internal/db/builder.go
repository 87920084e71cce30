package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SelectBuilder is a fluent builder for attribute-table selects.
type SelectBuilder struct {
	q SelectQuery
}

// NewSelect starts building a select over a table.
func NewSelect(table string) *SelectBuilder {
	return &SelectBuilder{q: SelectQuery{Table: table}}
}

// Columns restricts the selected columns; none means all.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.q.Columns = append(b.q.Columns, cols...)
	return b
}

// Where sets the boolean predicate.
func (b *SelectBuilder) Where(predicate string) *SelectBuilder {
	b.q.Where = predicate
	return b
}

// Distinct switches to unique values of one column.
func (b *SelectBuilder) Distinct(col string) *SelectBuilder {
	b.q.Distinct = col
	return b
}

// Limit caps the row count.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.q.Limit = n
	return b
}

// Build validates and returns the query.
func (b *SelectBuilder) Build() (*SelectQuery, error) {
	if err := b.q.Validate(); err != nil {
		return nil, err
	}
	q := b.q
	return &q, nil
}

// Validate checks the query for structural errors.
func (q *SelectQuery) Validate() error {
	if q.Table == "" {
		return errors.New("table is required")
	}
	if q.Limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", q.Limit)
	}
	if q.Distinct != "" && len(q.Columns) > 0 {
		return errors.New("distinct and columns are mutually exclusive")
	}
	return nil
}

// SQL renders the statement. Identifiers are double-quoted; the predicate is
// embedded as-is and must come from a trusted compiler.
func (q *SelectQuery) SQL() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	switch {
	case q.Distinct != "":
		sb.WriteString("DISTINCT ")
		sb.WriteString(QuoteIdent(q.Distinct))
	case len(q.Columns) > 0:
		quoted := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			quoted[i] = QuoteIdent(c)
		}
		sb.WriteString(strings.Join(quoted, ", "))
	default:
		sb.WriteString("*")
	}
	sb.WriteString(" FROM ")
	sb.WriteString(QuoteIdent(q.Table))

	var where []string
	if q.Where != "" {
		where = append(where, "("+q.Where+")")
	}
	if q.Distinct != "" {
		where = append(where, QuoteIdent(q.Distinct)+" IS NOT NULL")
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	if q.Distinct != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(QuoteIdent(q.Distinct))
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}
	return sb.String()
}

// QuoteIdent double-quotes an identifier, doubling embedded quotes.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
