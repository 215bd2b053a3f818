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
	"time"

	"github.com/brightpath-labs/vendoreval/internal/api"
	"github.com/brightpath-labs/vendoreval/internal/auth"
	"github.com/brightpath-labs/vendoreval/internal/config"
	"github.com/brightpath-labs/vendoreval/internal/decision"
	"github.com/brightpath-labs/vendoreval/internal/evaluation"
	"github.com/brightpath-labs/vendoreval/internal/events"
	"github.com/brightpath-labs/vendoreval/internal/rubric"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	// Rubric
	rb := rubric.Default()
	if cfg.Rubric.Path != "" {
		rb, err = rubric.LoadFile(cfg.Rubric.Path)
		if err != nil {
			logger.Error("failed to load rubric", "path", cfg.Rubric.Path, "error", err)
			os.Exit(1)
		}
	}
	if err := rb.Validate(); err != nil {
		logger.Error("rubric rejected", "error", err)
		os.Exit(1)
	}
	logger.Info("rubric loaded", "domain", rb.Domain, "criteria", rb.CriterionCount())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Event stream (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to event stream, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to event stream")
		}
	}

	// API server
	router := api.NewRouter(api.Deps{
		Store:    db,
		Rubric:   rb,
		Manager:  evaluation.NewManager(rb, db, logger),
		Decision: decision.NewService(db, logger),
		Resolver: auth.NewResolver(cfg.Auth.JWTSecret),
		Events:   eventsClient,
		Logger:   logger,
	})
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
