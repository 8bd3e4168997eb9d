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

	"github.com/notifyhub/notifyhub/internal/api"
	"github.com/notifyhub/notifyhub/internal/audit"
	"github.com/notifyhub/notifyhub/internal/config"
	"github.com/notifyhub/notifyhub/internal/forward"
	"github.com/notifyhub/notifyhub/internal/pipeline"
	"github.com/notifyhub/notifyhub/internal/store"
	"github.com/notifyhub/notifyhub/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("notifyhub starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Server.Level())

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"log_level", cfg.Server.LogLevel,
		"audit_log", cfg.Server.AuditLog,
		"stream_interval", cfg.Server.Stream.Interval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The log level is the one hot-reloadable setting. Everything else,
	// including webhook availability, stays fixed for the process lifetime.
	if _, err := os.Stat(*configPath); err == nil {
		go func() {
			err := config.Watch(ctx, *configPath, func(c *config.Config) {
				level.Set(c.Server.Level())
				slog.Info("log level updated", "log_level", c.Server.LogLevel)
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	st := store.New()
	auditLog := audit.New(cfg.Server.AuditLog)

	forwarder, err := forward.New(cfg.Server.Webhook.URL())
	if err != nil {
		slog.Warn("teams forwarder not configured, warnings go to the audit log",
			"url_env", cfg.Server.Webhook.URLEnv,
			"audit_log", auditLog.Path(),
		)
	} else {
		slog.Info("teams forwarder initialized", "url_env", cfg.Server.Webhook.URLEnv)
	}

	pipe := pipeline.New(st, forwarder, auditLog)

	// WebSocket hub — streams stats to clients on the configured interval.
	hub := ws.New(st, cfg.Server.Stream.Interval)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(st, pipe))
	mux.Handle("/ws/stream", hub)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("notifyhub shutting down")
	srv.Shutdown(context.Background()) //nolint:errcheck
}
