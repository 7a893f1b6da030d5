package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/statsboard/statsboard/api"
	"github.com/statsboard/statsboard/internal/api"
	"github.com/statsboard/statsboard/internal/catalog"
	"github.com/statsboard/statsboard/internal/config"
	"github.com/statsboard/statsboard/internal/database"
	"github.com/statsboard/statsboard/internal/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	dash, err := config.LoadDashboard(cfg.DashboardConfigPath)
	if err != nil {
		slog.Error("failed to load dashboard configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := api.RouterDeps{
		Dashboard:    dash,
		Version:      cfg.Version,
		OpenAPISpec:  specpkg.OpenAPISpec,
		AdminKeyHash: cfg.AdminKeyHash,
		CORSOrigins:  cfg.CORSOrigins,
	}

	hub := events.NewHub()
	defer hub.Close()
	deps.Events = hub

	opts := []catalog.Option{catalog.WithListener(hub.PublishSnapshot)}
	if cfg.DatabaseURL != "" {
		db, err := initDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := database.NewRepository(db.Pool())
		opts = append(opts, catalog.WithStore(repo))
		deps.DBPinger = db
		deps.Repo = repo
	}

	cat := catalog.New(cfg.DataPath, opts...)
	if _, err := cat.Reload(ctx); err != nil {
		// Requests get 503 until a later load succeeds. Without a watcher
		// (RELOAD_INTERVAL=0) only POST /admin/reload can retry it.
		slog.Warn("initial dataset load failed", "error", err, "path", cfg.DataPath)
	}
	deps.Source = cat
	deps.Reloader = cat

	if cfg.ReloadInterval > 0 {
		watcher := catalog.NewWatcher(cat, time.Duration(cfg.ReloadInterval)*time.Second)
		go watcher.Start(ctx)
	}

	router := api.NewRouter(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting statsboard server", "port", cfg.Port, "version", cfg.Version, "data", cfg.DataPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func initDatabase(ctx context.Context, url string) (*database.DB, error) {
	db, err := database.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")
	return db, nil
}
