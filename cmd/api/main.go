// Command api is the water reminder API server.
//
// Usage:
//
//	water-api
//	API_PORT=8080 water-api

// @title Water Reminder API
// @version 1.0.0
// @description Hydration reminders over Web Push plus drink logging and statistics (streaks, 90-day heatmap, hourly intensity).
// @host localhost:8000
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey ApiKey
// @in header
// @name x-api-key
// @securityDefinitions.apikey CronBearer
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mapleleafu/water/internal/api"
	"github.com/mapleleafu/water/internal/api/handler"
	"github.com/mapleleafu/water/internal/cache"
	"github.com/mapleleafu/water/internal/config"
	"github.com/mapleleafu/water/internal/db"
	"github.com/mapleleafu/water/internal/listener"
	"github.com/mapleleafu/water/internal/maintenance"
	"github.com/mapleleafu/water/internal/notifications"
	"github.com/mapleleafu/water/internal/push"
	"github.com/mapleleafu/water/internal/stats"
	"github.com/mapleleafu/water/internal/store"

	_ "github.com/mapleleafu/water/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Schema first: pooled connections prepare statements against it.
	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	st := store.NewPostgres(pool.Pool)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	go appCache.RunEvictor(ctx.Done())
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled, "stats_ttl", cfg.StatsCacheTTL)

	// Push provider and dispatcher
	provider := push.New(push.Credentials{
		Subject:    cfg.VAPIDSubject,
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
	}, logger)
	dispatcher := notifications.NewDispatcher(st, provider, logger,
		notifications.WithWorkers(cfg.DispatchWorkers))

	engine := stats.NewEngine(st, cfg.StatsLocation())

	// Start LISTEN/NOTIFY consumer for cross-instance cache invalidation
	if cfg.CacheEnabled {
		go listener.Start(ctx, cfg.DatabaseURL, appCache, cache.StatsPrefix, logger)
	}

	// Start maintenance tickers (scheduled reminders, mute sweep)
	go maintenance.Start(ctx, dispatcher, st, maintenance.Config{
		ReminderInterval:  cfg.ReminderInterval,
		MuteSweepInterval: cfg.MuteSweepInterval,
	}, logger)

	// Create router
	h := handler.New(handler.Deps{
		Store:      st,
		Dispatcher: dispatcher,
		Stats:      engine,
		Cache:      appCache,
		DB:         pool,
		Config:     cfg,
		Logger:     logger,
	})
	router := api.NewRouter(h, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // dispatch joins on every push
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting water reminder API",
			"addr", addr,
			"environment", cfg.Environment,
			"push_enabled", cfg.PushEnabled(),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
