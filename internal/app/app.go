// Package app assembles the layer search components from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/config"
	dbRedis "github.com/kailas-cloud/layersearch/internal/db/redis"
	dbSqlite "github.com/kailas-cloud/layersearch/internal/db/sqlite"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/metrics"
	layerrepo "github.com/kailas-cloud/layersearch/internal/repository/layer"
	"github.com/kailas-cloud/layersearch/internal/repository/valuecache"
	"github.com/kailas-cloud/layersearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/layersearch/internal/usecase/health"
	"github.com/kailas-cloud/layersearch/internal/usecase/sampler"
	scopeuc "github.com/kailas-cloud/layersearch/internal/usecase/scope"
	searchuc "github.com/kailas-cloud/layersearch/internal/usecase/search"
)

// App holds the wired components shared by the server and the CLI.
type App struct {
	Store    *dbSqlite.Store
	Cache    *dbRedis.Store
	Catalog  layer.Catalog
	Layers   *layerrepo.Repo
	Resolver *scopeuc.Resolver
	Bus      *searchuc.Bus
	Search   *searchuc.Service
	Sampler  *sampler.Sampler
	Exporter *export.Exporter
	Health   *healthuc.Service
}

// Build opens the stores and wires the usecases. The caller must Close the App.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := dbSqlite.NewStore(dbSqlite.Config{
		Path:         cfg.Database.Path,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open layer database: %w", err)
	}
	a := &App{Store: store}

	if err := store.Ping(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("layer database not ready: %w", err)
	}

	a.Catalog, err = loadCatalog(ctx, cfg, store)
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("Layer catalog loaded",
		zap.Int("entries", len(a.Catalog.Entries())),
		zap.Bool("discovered", len(cfg.Catalog) == 0),
	)

	a.Layers = layerrepo.New(store, a.Catalog)
	a.Resolver = scopeuc.New(a.Catalog)

	a.Bus, err = searchuc.NewBus()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create event bus: %w", err)
	}

	a.Search = searchuc.New(a.Layers, a.Resolver, logger,
		searchuc.WithMaxParallel(cfg.Search.MaxParallel),
		searchuc.WithQueryTimeout(cfg.Search.QueryTimeout()),
		searchuc.WithBus(a.Bus),
	)

	var values sampler.ValueSource = a.Layers
	if cfg.Cache.Enabled() {
		a.Cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create value cache: %w", err)
		}
		cached := valuecache.New(a.Layers, a.Cache, cfg.Cache.TTL(), metrics.ValueCacheTotal, logger)
		wait := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := a.Cache.WaitForReady(ctx, wait); err != nil {
			// Sampling still works uncached; health reports degraded.
			logger.Warn("Value cache not ready", zap.Error(err))
		} else if n, err := cached.Purge(ctx); err != nil {
			logger.Warn("Value cache purge failed", zap.Error(err))
		} else {
			logger.Info("Value cache purged", zap.Int("keys", n))
		}
		values = cached
	}
	a.Sampler = sampler.New(a.Layers, values, cfg.Search.SampleCap, logger)
	a.Exporter = export.New()

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cachePinger healthuc.Pinger
	if a.Cache != nil {
		cachePinger = a.Cache
	}
	a.Health = healthuc.New(store, cachePinger)

	return a, nil
}

// Close releases the stores.
func (a *App) Close() {
	if a.Cache != nil {
		a.Cache.Close()
	}
	if a.Store != nil {
		_ = a.Store.Close()
	}
}

func loadCatalog(ctx context.Context, cfg config.Config, store *dbSqlite.Store) (layer.Catalog, error) {
	if len(cfg.Catalog) == 0 {
		cat, err := layerrepo.Discover(ctx, store)
		if err != nil {
			return layer.Catalog{}, fmt.Errorf("discover layers: %w", err)
		}
		return cat, nil
	}
	cat, err := config.BuildCatalog(cfg.Catalog)
	if err != nil {
		return layer.Catalog{}, fmt.Errorf("build catalog: %w", err)
	}
	return cat, nil
}
