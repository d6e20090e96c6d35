package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/ai"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/api"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/platform/cache"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/platform/config"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/platform/database"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log, os.Stdout))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	loader, err := curriculum.NewLoader(cfg.CurriculumPath)
	if err != nil {
		slog.Error("failed to load curriculum", "path", cfg.CurriculumPath, "error", err)
		os.Exit(1)
	}
	slog.Info("curriculum loaded", "path", cfg.CurriculumPath, "courses", len(loader.Courses()))

	checks := map[string]api.HealthChecker{}

	st, closeStore := openStore(ctx, cfg.Database, checks)
	defer closeStore()

	forecastCache := openCache(ctx, cfg.Cache, checks)
	if forecastCache != nil {
		defer forecastCache.Close()
	}

	engine := adaptive.NewEngine(adaptive.EngineConfig{
		Forecaster:      newForecaster(newAIRouter(cfg.AI), forecastCache, cfg.Engine),
		ForecastTimeout: cfg.Engine.ForecastTimeout(),
	})

	if err := adaptive.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		slog.Error("failed to register engine metrics", "error", err)
		os.Exit(1)
	}
	if err := api.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		slog.Error("failed to register api metrics", "error", err)
		os.Exit(1)
	}

	handler := api.New(api.Config{
		Engine:  engine,
		Catalog: loader,
		Store:   st,
		Checks:  checks,
	}).Handler()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openStore connects to PostgreSQL when configured and falls back to an
// in-memory store when the database is absent or unreachable.
func openStore(ctx context.Context, cfg config.DatabaseConfig, checks map[string]api.HealthChecker) (store.Store, func()) {
	noop := func() {}
	if cfg.URL == "" {
		slog.Info("no database configured, using in-memory student store")
		return store.NewMemoryStore(), noop
	}

	db, err := database.New(ctx, cfg.URL, cfg.MaxConns, cfg.MinConns)
	if err != nil {
		slog.Warn("database unavailable, using in-memory student store", "error", err)
		return store.NewMemoryStore(), noop
	}
	if err := db.Migrate(ctx, store.Schema...); err != nil {
		slog.Warn("database migration failed, using in-memory student store", "error", err)
		db.Close()
		return store.NewMemoryStore(), noop
	}

	pg, err := store.NewPostgresStore(db.Pool)
	if err != nil {
		db.Close()
		slog.Warn("postgres store unavailable, using in-memory student store", "error", err)
		return store.NewMemoryStore(), noop
	}
	checks["database"] = db.HealthCheck
	slog.Info("using postgres student store")
	return pg, db.Close
}

// openCache returns nil when no cache is configured or reachable; forecasts
// then go uncached.
func openCache(ctx context.Context, cfg config.CacheConfig, checks map[string]api.HealthChecker) *cache.Cache {
	if cfg.URL == "" {
		return nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c, err := cache.New(dialCtx, cfg.URL)
	if err != nil {
		slog.Warn("cache unavailable, forecasts will not be cached", "error", err)
		return nil
	}
	checks["cache"] = c.HealthCheck
	return c
}

// newAIRouter registers providers in fallback order: OpenAI-compatible first,
// then Ollama.
func newAIRouter(cfg config.AIConfig) *ai.Router {
	router := ai.NewRouter()
	if cfg.OpenAI.APIKey != "" {
		router.Register("openai", ai.NewOpenAIProvider(cfg.OpenAI.APIKey,
			ai.WithBaseURL(cfg.OpenAI.BaseURL),
			ai.WithDefaultModel(cfg.OpenAI.Model),
		))
	}
	if cfg.Ollama.Enabled {
		router.Register("ollama", ai.NewOllamaProvider(cfg.Ollama.URL))
	}
	return router
}

// newForecaster returns nil when no provider is registered, which limits
// struggle prediction to prerequisite analysis.
func newForecaster(router *ai.Router, c *cache.Cache, cfg config.EngineConfig) adaptive.Forecaster {
	if !router.HasProvider() {
		slog.Info("no AI provider configured, struggle forecasts disabled")
		return nil
	}
	var opts []adaptive.AIForecasterOption
	if c != nil && cfg.ForecastCacheTTLMinutes > 0 {
		opts = append(opts, adaptive.WithForecastCache(c, cfg.ForecastCacheTTL()))
	}
	return adaptive.NewAIForecaster(router, opts...)
}
