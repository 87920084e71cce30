package layersearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/app"
	"github.com/kailas-cloud/layersearch/internal/config"
	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
	"github.com/kailas-cloud/layersearch/internal/usecase/export"
)

// Internal interfaces, replaced by fakes in tests.
type searchUseCase interface {
	Search(ctx context.Context, cs []criteria.Criterion, sel domscope.Selector, generation uint64) (*result.SearchResult, error)
}

type scopeResolver interface {
	Resolve(ctx context.Context, sel domscope.Selector) ([]layer.Ref, error)
	Title(ref layer.Ref) string
	Catalog() layer.Catalog
}

type valueSampler interface {
	Sample(ctx context.Context, refs []layer.Ref, fieldName string, limit int) []string
}

type exporter interface {
	Write(w io.Writer, res *result.SearchResult, opts export.Options) error
}

// Client is the layer search SDK entry point. It is safe for concurrent use.
type Client struct {
	app       *app.App
	searchSvc searchUseCase
	resolver  scopeResolver
	sampler   valueSampler
	exporter  exporter
	healthSvc healthUseCase
	obs       *observer
	now       func() time.Time

	generation atomic.Uint64
}

// Open creates a Client: it opens the layer database, builds or discovers the
// catalog and connects the value cache when one is configured.
func Open(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}
	if cc.configFile != "" {
		loaded, err := config.LoadFile(cc.configFile)
		if err != nil {
			return nil, fmt.Errorf("layersearch: %w", err)
		}
		cc = &clientConfig{cfg: loaded}
		for _, o := range opts {
			o.apply(cc)
		}
	}
	if cc.cfg.Database.Path == "" {
		return nil, errors.New("layersearch: database path required (use WithDatabase)")
	}
	cc.cfg.ApplyDefaults()

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	a, err := app.Build(ctx, cc.cfg, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("layersearch: %w", err)
	}
	return &Client{
		app:       a,
		searchSvc: a.Search,
		resolver:  a.Resolver,
		sampler:   a.Sampler,
		exporter:  a.Exporter,
		healthSvc: a.Health,
		obs:       obs,
		now:       time.Now,
	}, nil
}

// Close releases the database and cache connections.
func (c *Client) Close() {
	if c.app != nil {
		c.app.Close()
	}
}

// Layers returns the catalog tree.
func (c *Client) Layers() []Layer {
	return fromInternalEntries(c.resolver.Catalog().Entries())
}

// Search runs the criteria against every layer selected by scope
// ("all", "region:<name>" or "collection:<name>"; empty means all).
// With no criteria every record of every layer matches.
func (c *Client) Search(ctx context.Context, scope string, cs ...Criterion) (_ *Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	sel, err := domscope.Parse(scope)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	res, err := c.searchSvc.Search(ctx, toInternalCriteria(cs), sel, c.generation.Add(1))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromInternalResult(res, c.resolver.Title), nil
}

// Values returns up to limit distinct values of field across the layers in
// scope, sorted. limit <= 0 uses the configured sample cap.
func (c *Client) Values(ctx context.Context, scope, field string, limit int) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("values", start, err) }()

	sel, err := domscope.Parse(scope)
	if err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}
	refs, err := c.resolver.Resolve(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}
	return c.sampler.Sample(ctx, refs, field, limit), nil
}

// Export writes res as CSV grouped by layer. title may be empty.
// Returns ErrEmptyExport when res has no records.
func (c *Client) Export(w io.Writer, res *Result, title string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("export", start, err) }()

	var raw *result.SearchResult
	if res != nil {
		raw = res.raw
	}
	opts := export.Options{Title: title, Date: c.now(), Titles: c.resolver.Title}
	if err := c.exporter.Write(w, raw, opts); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
