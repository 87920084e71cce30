// Package expression compiles criteria into a SQL-dialect WHERE predicate.
//
// Case folding uses UPPER() on both sides of string comparisons, but only for
// field names made of printable ASCII: UPPER is not assumed to handle other
// scripts, so those comparisons stay exact-case.
package expression

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/layersearch/internal/domain"
	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
)

const (
	matchAll  = "1=1"
	matchNone = "1=0"
)

var plainIdent = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// Expression is a compiled, reusable boolean predicate.
type Expression struct {
	text string
}

// MatchAll returns the predicate that matches every record.
func MatchAll() Expression { return Expression{text: matchAll} }

// Raw wraps predicate text produced elsewhere (e.g. a stored query).
func Raw(text string) Expression { return Expression{text: text} }

// String returns the predicate text; the zero value is the match-all predicate.
func (e Expression) String() string {
	if e.text == "" {
		return matchAll
	}
	return e.text
}

// IsMatchAll reports whether the predicate is the match-all sentinel.
func (e Expression) IsMatchAll() bool { return e.String() == matchAll }

// Compile turns criteria into a single predicate. Clauses are joined by each
// criterion's own logical operator; the first criterion's is ignored.
// Compile never fails: call Validate first to reject incomplete criteria.
func Compile(cs []criteria.Criterion) Expression {
	if len(cs) == 0 {
		return MatchAll()
	}

	var sb strings.Builder
	for i, c := range cs {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(joinToken(c.Logical))
			sb.WriteString(" ")
		}
		sb.WriteString(clause(c))
	}
	return Expression{text: sb.String()}
}

// Validate rejects criteria that cannot produce a meaningful clause.
// Returns the first problem as a *domain.ValidationError.
func Validate(cs []criteria.Criterion) error {
	for _, c := range cs {
		if strings.TrimSpace(c.Field) == "" {
			return domain.NewValidationError(c.ID, "field is required")
		}
		if strings.TrimSpace(c.Value) == "" {
			return domain.NewValidationError(c.ID, "value is required")
		}
		if !c.Operator.IsValid() {
			return domain.NewValidationError(c.ID, fmt.Sprintf("unknown operator %q", c.Operator))
		}
		if !c.Logical.IsValid() {
			return domain.NewValidationError(c.ID, fmt.Sprintf("unknown logical operator %q", c.Logical))
		}
		if _, isString := c.Operator.StringOp(); !isString {
			if _, ok := parseNumber(c.Value); !ok {
				return domain.NewValidationError(c.ID,
					fmt.Sprintf("operator %q requires a numeric value", c.Operator))
			}
		}
	}
	return nil
}

func joinToken(l criteria.Logical) string {
	if l == criteria.LogicalOr {
		return "OR"
	}
	return "AND"
}

func clause(c criteria.Criterion) string {
	field := identifier(c.Field)

	if op, ok := c.Operator.NumericOp(); ok {
		if n, isNum := parseNumber(c.Value); isNum {
			return numericClause(field, op, strconv.FormatFloat(n, 'f', -1, 64))
		}
		if _, isString := c.Operator.StringOp(); !isString {
			return numericClause(field, op, quote(c.Value))
		}
	}

	op, ok := c.Operator.StringOp()
	if !ok {
		return matchNone
	}
	return stringClause(field, op, escape(c.Value), isPrintableASCII(c.Field))
}

func numericClause(field string, op criteria.NumericOp, literal string) string {
	var sym string
	switch op {
	case criteria.NumEquals:
		sym = "="
	case criteria.NumNotEquals:
		sym = "<>"
	case criteria.NumGreater:
		sym = ">"
	case criteria.NumLess:
		sym = "<"
	case criteria.NumGreaterEqual:
		sym = ">="
	case criteria.NumLessEqual:
		sym = "<="
	default:
		return matchNone
	}
	return field + " " + sym + " " + literal
}

func stringClause(field string, op criteria.StringOp, v string, fold bool) string {
	var cmp, pattern string
	switch op {
	case criteria.StrContains:
		cmp, pattern = "LIKE", "%"+v+"%"
	case criteria.StrEquals:
		cmp, pattern = "=", v
	case criteria.StrNotContains:
		cmp, pattern = "NOT LIKE", "%"+v+"%"
	case criteria.StrStarts:
		cmp, pattern = "LIKE", v+"%"
	case criteria.StrEnds:
		cmp, pattern = "LIKE", "%"+v
	default:
		return matchNone
	}
	literal := "'" + pattern + "'"
	if fold {
		return "UPPER(" + field + ") " + cmp + " UPPER(" + literal + ")"
	}
	return field + " " + cmp + " " + literal
}

// parseNumber accepts finite decimal numbers only.
func parseNumber(v string) (float64, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func escape(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

func quote(v string) string {
	return "'" + escape(v) + "'"
}

// identifier emits plain names as-is and double-quotes everything else.
func identifier(name string) string {
	if plainIdent.MatchString(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
