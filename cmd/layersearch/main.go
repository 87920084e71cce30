package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/app"
	"github.com/kailas-cloud/layersearch/internal/config"
	logpkg "github.com/kailas-cloud/layersearch/internal/logger"
	"github.com/kailas-cloud/layersearch/internal/metrics"
	chiTransport "github.com/kailas-cloud/layersearch/internal/transport/chi"
	searchuc "github.com/kailas-cloud/layersearch/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/layersearch/internal/usecase/session"
	"github.com/kailas-cloud/layersearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, logpkg.WithLevel(cfg.Logging.Level), logpkg.WithService("layersearch"))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting layersearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_path", cfg.Database.Path),
		zap.Bool("cache_enabled", cfg.Cache.Enabled()),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build application", zap.Error(err))
	}
	defer a.Close()

	a.Bus.Subscribe(searchuc.EventCollectionFailed, func(_ context.Context, ev searchuc.CollectionFailed) error {
		logger.Debug("Collection failure event",
			zap.String("search_id", ev.SearchID),
			zap.String("ref", ev.Ref.String()),
			zap.Duration("duration", ev.Duration),
		)
		return nil
	})

	sessions := sessionuc.NewManager(a.Search, logger,
		sessionuc.WithPageSize(cfg.Search.DefaultPageSize),
		sessionuc.WithIdleTTL(time.Duration(cfg.Session.IdleTTLSec)*time.Second),
	)
	go sessions.Run(ctx, time.Duration(cfg.Session.SweepIntervalSec)*time.Second)

	server := chiTransport.NewServer(sessions, a.Resolver, a.Sampler, a.Exporter, a.Health, logger).
		WithMaxPageSize(cfg.Search.MaxPageSize)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
