package search

import (
	"context"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/record"
	"github.com/kailas-cloud/layersearch/internal/domain/search/expression"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
)

// Collections runs a compiled predicate against one layer.
type Collections interface {
	Query(ctx context.Context, ref layer.Ref, expr expression.Expression) ([]record.Record, error)
}

// ScopeResolver expands a selector into leaf layer refs.
type ScopeResolver interface {
	Resolve(ctx context.Context, sel domscope.Selector) ([]layer.Ref, error)
}
