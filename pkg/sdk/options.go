package layersearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/layersearch/internal/config"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cfg        config.Config
	configFile string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDatabase sets the path of the SQLite layer database. Required.
func WithDatabase(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Database.Path = path
	})
}

// WithConfigFile loads the catalog and search tuning from a YAML config file
// in the server's format. The other options are applied on top of it.
func WithConfigFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.configFile = path
	})
}

// WithLayer adds a top-level layer backed by table.
// Without any WithLayer or WithRegion option, every table is discovered.
func WithLayer(index int, title, table string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Catalog = append(c.cfg.Catalog, leafEntry(index, title, table))
	})
}

// WithRegion adds a region grouping the given layers.
func WithRegion(index int, title string, layers ...Layer) Option {
	return optionFunc(func(c *clientConfig) {
		e := config.CatalogEntry{Region: &index, Title: title}
		for i, l := range layers {
			e.Layers = append(e.Layers, leafEntry(layerIndex(l, i), l.Title, l.Table))
		}
		c.cfg.Catalog = append(c.cfg.Catalog, e)
	})
}

// WithValueCache enables the Redis value cache used by Values.
func WithValueCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Cache.Addrs = []string{addr}
		c.cfg.Cache.Password = password
	})
}

// WithMaxParallel bounds the number of layers queried at once. Default: 8.
func WithMaxParallel(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.MaxParallel = n
	})
}

// WithQueryTimeout bounds a single layer query. Default: 30s.
func WithQueryTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.QueryTimeoutMs = int(d / time.Millisecond)
	})
}

// WithSampleCap sets the default number of distinct values returned by Values.
// Default: 100.
func WithSampleCap(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.SampleCap = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

func leafEntry(index int, title, table string) config.CatalogEntry {
	return config.CatalogEntry{Layer: &index, Title: title, Table: table}
}

// layerIndex reads the index from a "layer:N" ref, falling back to position.
func layerIndex(l Layer, pos int) int {
	if ref, err := layer.ParseRef(l.Ref); err == nil && ref.Kind() == layer.KindLayer {
		return ref.Index()
	}
	return pos
}
