package session

import (
	"context"

	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
)

// Searcher runs one search for a generation.
type Searcher interface {
	Search(
		ctx context.Context, cs []criteria.Criterion, sel domscope.Selector, generation uint64,
	) (*result.SearchResult, error)
}
