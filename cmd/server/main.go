package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hirelens/hirelens/internal/alerts"
	"github.com/hirelens/hirelens/internal/api"
	"github.com/hirelens/hirelens/internal/auth"
	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/dashboard"
	"github.com/hirelens/hirelens/internal/dataset"
	"github.com/hirelens/hirelens/internal/exporter"
	"github.com/hirelens/hirelens/internal/store"
	"github.com/hirelens/hirelens/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	envFile := flag.String("env-file", ".env", "load environment variables from this file if it exists")
	uiDir := flag.String("ui-dir", "", "serve the dashboard UI static files from this directory (e.g. ui/dist); leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("hirelens-server starting", "config", *configPath)

	// Secrets referenced by *_env config fields may live in a .env file.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load env file", "path", *envFile, "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"source", cfg.Dataset.Source,
		"refresh_interval", cfg.Dataset.RefreshInterval,
		"webhooks", len(cfg.Alerts.Webhooks),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st := store.New(cfg.Dataset.MaxAge)
	notifier := alerts.NewNotifier(cfg.Alerts)
	exp := exporter.New(st)

	var watchPath string
	if cfg.Dataset.Watch {
		watchPath = cfg.Dataset.Source
	}
	svc, err := dashboard.NewService(dashboard.ServiceConfig{
		Loader:    dataset.New(cfg.Dataset),
		Store:     st,
		Notifier:  notifier,
		Exporter:  exp,
		Options:   dashboard.OptionsFrom(cfg),
		Interval:  cfg.Dataset.RefreshInterval,
		WatchPath: watchPath,
	})
	if err != nil {
		slog.Error("failed to build dashboard service", "err", err)
		os.Exit(1)
	}

	// WebSocket hub: periodic broadcast plus an immediate push on every refresh.
	hub := ws.New(st, cfg.Server.StreamInterval)
	svc.Subscribe(hub.Publish)
	go hub.Run(ctx)
	go svc.Run(ctx)

	// Thresholds, top-N, cooldown, webhooks and max age follow config edits.
	// Source, port and auth need a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			svc.SetOptions(dashboard.OptionsFrom(updated))
			notifier.Configure(updated.Alerts)
			st.SetMaxAge(updated.Dataset.MaxAge)
			slog.Info("config hot-reloaded",
				"top_jobs", updated.Dashboard.TopJobs,
				"webhooks", len(updated.Alerts.Webhooks))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	requireKey := auth.APIKey(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
		"/api/v1/health", "/metrics",
	)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(st, notifier))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", exp.Handler())

	if *uiDir != "" {
		files := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// SPA fallback: unknown paths get index.html.
			path := filepath.Join(*uiDir, filepath.Clean(r.URL.Path))
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, filepath.Join(*uiDir, "index.html"))
				return
			}
			files.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           requireKey(httpMux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("hirelens-server shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
