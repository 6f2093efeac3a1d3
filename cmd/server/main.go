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

	"github.com/cpacc-prep/studybank/internal/api"
	"github.com/cpacc-prep/studybank/internal/bank"
	"github.com/cpacc-prep/studybank/internal/feedback"
	"github.com/cpacc-prep/studybank/internal/platform/cache"
	"github.com/cpacc-prep/studybank/internal/platform/config"
	"github.com/cpacc-prep/studybank/internal/platform/database"
	"github.com/cpacc-prep/studybank/internal/topics"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	handler, cleanup, err := newHandler(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

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

// newHandler wires the question sources and stores. An unreachable database
// or cache is logged and skipped; requests are then served from the
// snapshot or the fallback set.
func newHandler(ctx context.Context, cfg *config.Config) (http.Handler, func(), error) {
	m, err := topics.Load(cfg.Ingest.TopicsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading topics: %w", err)
	}

	var primary bank.Source
	var store feedback.Store = feedback.NewMemoryStore()
	var closers []func()
	checks := map[string]api.HealthChecker{}

	if cfg.Database.Enabled {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			slog.Warn("database unavailable, serving fallback questions", "error", err)
		} else if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		} else {
			primary = bank.NewPostgresSource(db.Pool, m)
			store = feedback.NewPostgresStore(db.Pool)
			checks["database"] = db
			closers = append(closers, db.Close)
		}
	}

	if primary == nil && cfg.Ingest.SnapshotPath != "" {
		snap, err := bank.FromSnapshot(cfg.Ingest.SnapshotPath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("serving questions from snapshot", "path", cfg.Ingest.SnapshotPath, "questions", snap.Len())
		primary = snap
	}

	if cfg.Cache.Enabled && primary != nil {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			slog.Warn("cache unavailable, reading questions uncached", "error", err)
		} else {
			primary = bank.NewCachedSource(primary, c, cfg.Cache.TTL, nil)
			checks["cache"] = c
			closers = append(closers, func() { _ = c.Close() })
		}
	}

	if primary == nil {
		slog.Warn("no question store configured, serving fallback questions only")
	}

	srv := api.NewServer(api.Deps{
		Selector:       bank.NewSelector(primary, bank.Static(), m, slog.Default()),
		Topics:         m,
		Feedback:       store,
		Checks:         checks,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         slog.Default(),
	})

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return srv.Router(), cleanup, nil
}
