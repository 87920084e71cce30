package chi

import (
	"context"
	"io"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
	"github.com/kailas-cloud/layersearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/layersearch/internal/usecase/health"
	"github.com/kailas-cloud/layersearch/internal/usecase/session"
)

// Sessions owns the search sessions.
type Sessions interface {
	Create() *session.Session
	Get(id string) (*session.Session, error)
	Delete(id string) error
}

// Catalog resolves selectors and names layers.
type Catalog interface {
	Resolve(ctx context.Context, sel domscope.Selector) ([]layer.Ref, error)
	Title(ref layer.Ref) string
	Catalog() layer.Catalog
}

// Sampler collects distinct field values.
type Sampler interface {
	Sample(ctx context.Context, refs []layer.Ref, field string, limit int) []string
}

// Exporter renders an aggregate as CSV.
type Exporter interface {
	Write(w io.Writer, res *result.SearchResult, opts export.Options) error
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
