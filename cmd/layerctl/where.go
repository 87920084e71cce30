package main

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
)

// clause is one parsed --where flag: "[and|or] <field> <operator> <value...>".
type clause struct {
	logical  criteria.Logical
	field    string
	operator string
	value    string
}

func parseWhere(s string) (clause, error) {
	parts := strings.Fields(s)
	var c clause
	if len(parts) > 0 {
		switch strings.ToUpper(parts[0]) {
		case string(criteria.LogicalAnd):
			c.logical, parts = criteria.LogicalAnd, parts[1:]
		case string(criteria.LogicalOr):
			c.logical, parts = criteria.LogicalOr, parts[1:]
		}
	}
	if len(parts) < 3 {
		return clause{}, fmt.Errorf("where %q: want \"[and|or] <field> <operator> <value>\"", s)
	}
	c.field, c.operator = parts[0], parts[1]
	c.value = strings.Join(parts[2:], " ")
	return c, nil
}

// buildCriteria fills a fresh model the way an interactive user would.
func buildCriteria(wheres []string) (*criteria.Model, error) {
	m := criteria.NewModel()
	for _, w := range wheres {
		c, err := parseWhere(w)
		if err != nil {
			return nil, err
		}
		id := m.Add()
		m.Update(id, criteria.PathField, c.field)
		m.Update(id, criteria.PathOperator, c.operator)
		m.Update(id, criteria.PathValue, c.value)
		if c.logical != criteria.LogicalNone && m.Len() > 1 {
			m.Update(id, criteria.PathLogical, string(c.logical))
		}
	}
	return m, nil
}
