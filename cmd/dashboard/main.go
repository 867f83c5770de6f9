// Command dashboard serves the shot map dashboard.
//
// Usage:
//
//	shotmap-dashboard
//	API_PORT=8080 shotmap-dashboard

// @title Shot Map Dashboard API
// @version 1.0.0
// @description Shot map dashboard for one club's league season. Serves the HTML dashboard, the SVG shot map and JSON views of the filtered shot data.
// @host localhost:8501
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/shotmap/internal/api"
	"github.com/albapepper/shotmap/internal/api/handler"
	"github.com/albapepper/shotmap/internal/cache"
	"github.com/albapepper/shotmap/internal/config"
	"github.com/albapepper/shotmap/internal/dashboard"
	"github.com/albapepper/shotmap/internal/db"
	"github.com/albapepper/shotmap/internal/ingest"
	"github.com/albapepper/shotmap/internal/listener"
	"github.com/albapepper/shotmap/internal/maintenance"

	_ "github.com/albapepper/shotmap/docs" // swagger docs
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

	level := cfg.LogLevel
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Optional database mirror
	var (
		mirror ingest.Mirror
		pinger handler.Pinger
		origin string
	)
	if cfg.MirrorEnabled() {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg, logger)
		if err != nil {
			logger.Error("Database mirror unavailable, continuing with flat files only", "error", err)
		} else {
			defer pool.Close()
			mirror, pinger, origin = pool, pool, pool.Origin()
			logger.Info("Database connected",
				"min_conns", cfg.DBPoolMinConns,
				"max_conns", cfg.DBPoolMaxConns)
		}
	}

	// Session: fetcher, flat files and the memoized shot data
	fetcher := ingest.NewFromConfig(cfg, mirror, logger)
	files := ingest.NewStore(cfg)
	session := dashboard.NewSession(files, fetcher, cfg.Seasons, cfg.CurrentSeason, logger)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Create router
	router := api.NewRouter(session, appCache, pinger, cfg, logger)

	// Background tasks: scheduled refresh and temp file sweep
	maint := maintenance.DefaultConfig()
	maint.RefreshInterval = cfg.RefreshInterval
	maint.SweepInterval = cfg.SweepInterval
	refresh := maintenance.RefreshFunc(func(ctx context.Context) error {
		_, err := session.Refresh(ctx)
		return err
	})
	go maintenance.Start(ctx, refresh, files, maint, logger)

	// Shots mirrored by a separate ingest run invalidate the dashboard data
	if pinger != nil {
		go listener.Start(ctx, cfg.DatabaseURL, listener.Options{
			Season:   cfg.CurrentSeason,
			Origin:   origin,
			OnUpdate: func(db.ShotsEvent) { session.Reload() },
		}, logger)
	}

	// Create HTTP server. Writes allow for a full refresh, which walks
	// every club match of every season.
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting shot map dashboard",
			"addr", addr,
			"club", cfg.Club,
			"season", cfg.CurrentSeason,
			"environment", cfg.Environment,
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
