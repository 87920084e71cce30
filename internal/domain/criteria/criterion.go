package criteria

// Operator is the comparison token chosen for a criterion.
type Operator string

// Operator tokens. Equals belongs to both the string and numeric sets.
const (
	Contains     Operator = "contains"
	Equals       Operator = "equals"
	Starts       Operator = "starts"
	Ends         Operator = "ends"
	NotContains  Operator = "notContains"
	NotEquals    Operator = "notEquals"
	Greater      Operator = "greater"
	Less         Operator = "less"
	GreaterEqual Operator = "greaterEqual"
	LessEqual    Operator = "lessEqual"
)

// StringOp is the closed set of operators with string semantics.
type StringOp int

// String operators.
const (
	StrContains StringOp = iota + 1
	StrEquals
	StrStarts
	StrEnds
	StrNotContains
)

// NumericOp is the closed set of operators with numeric semantics.
type NumericOp int

// Numeric operators.
const (
	NumEquals NumericOp = iota + 1
	NumNotEquals
	NumGreater
	NumLess
	NumGreaterEqual
	NumLessEqual
)

var stringOps = map[Operator]StringOp{
	Contains:    StrContains,
	Equals:      StrEquals,
	Starts:      StrStarts,
	Ends:        StrEnds,
	NotContains: StrNotContains,
}

var numericOps = map[Operator]NumericOp{
	Equals:       NumEquals,
	NotEquals:    NumNotEquals,
	Greater:      NumGreater,
	Less:         NumLess,
	GreaterEqual: NumGreaterEqual,
	LessEqual:    NumLessEqual,
}

// IsValid checks if the operator is a known token.
func (o Operator) IsValid() bool {
	_, s := stringOps[o]
	_, n := numericOps[o]
	return s || n
}

// StringOp returns the string-semantics variant, if the operator has one.
func (o Operator) StringOp() (StringOp, bool) {
	op, ok := stringOps[o]
	return op, ok
}

// NumericOp returns the numeric-semantics variant, if the operator has one.
func (o Operator) NumericOp() (NumericOp, bool) {
	op, ok := numericOps[o]
	return op, ok
}

// Logical joins a criterion to the one before it.
type Logical string

// Logical operators. None is only meaningful on the first criterion.
const (
	LogicalNone Logical = ""
	LogicalAnd  Logical = "AND"
	LogicalOr   Logical = "OR"
)

// IsValid checks if the logical operator is a known token.
func (l Logical) IsValid() bool {
	return l == LogicalNone || l == LogicalAnd || l == LogicalOr
}

// Criterion is one field/operator/value condition.
type Criterion struct {
	ID       int      `json:"id"`
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
	Logical  Logical  `json:"logical,omitempty"`
}
