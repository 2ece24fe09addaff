package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deptpulse/deptpulse/internal/alerts"
	"github.com/deptpulse/deptpulse/internal/api"
	"github.com/deptpulse/deptpulse/internal/config"
	"github.com/deptpulse/deptpulse/internal/ingest"
	"github.com/deptpulse/deptpulse/internal/refresh"
	"github.com/deptpulse/deptpulse/internal/view"
	"github.com/deptpulse/deptpulse/internal/ws"
	"github.com/deptpulse/deptpulse/pkg/model"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("deptpulse starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"refresh_interval", cfg.Sheet.RefreshInterval,
		"categories", len(cfg.Categories),
		"auth_mode", cfg.Server.Auth.Mode,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Ingestion pipeline and the scheduler that drives it.
	pipeline := ingest.New(cfg.Sheet.ShareURL, cfg.Categories, cfg.Sheet.FetchTimeout)
	sched := refresh.New(pipeline, cfg.Sheet.RefreshInterval)

	// Alerts engine — evaluates rules on every fresh snapshot.
	alertEngine := alerts.New(cfg.Alerts)

	// WebSocket hub — pushes snapshots to dashboard clients. The ticker
	// interval matches the refresh interval; Notify delivers sooner.
	hub := ws.New(sched, cfg.Sheet.RefreshInterval)

	sched.OnSnapshot(func(records []model.Department) {
		alertEngine.Evaluate(records)
		hub.Notify()
	})

	go sched.Run(ctx)
	go hub.Run(ctx)

	// Log-only config watcher: flags edits that need a restart to apply.
	go func() {
		err := config.Watch(ctx, *configPath, func(*config.Config) {
			slog.Info("config changed on disk; restart to apply")
		})
		if err != nil {
			slog.Warn("config watch disabled", "err", err)
		}
	}()

	sorter := view.NewSorter(cfg.Sheet.Locale)

	// Combined HTTP server: REST API + WebSocket stream + metrics.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(sched, alertEngine, sorter, cfg.Server.Auth))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("deptpulse shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
