package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/cardhub/internal/config"
	"github.com/JonMunkholm/cardhub/internal/core"
	"github.com/JonMunkholm/cardhub/internal/history"
	"github.com/JonMunkholm/cardhub/internal/logging"
	"github.com/JonMunkholm/cardhub/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"process_max_concurrent", cfg.Processing.MaxConcurrent,
		"history_enabled", cfg.Database.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// History is optional; without a database runs live only in memory
	var store core.HistoryStore
	if cfg.Database.Enabled() {
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		h := history.New(pool)
		if err := h.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare history schema", "error", err)
			os.Exit(1)
		}
		store = h
	}

	registry := core.DefaultRegistry()
	if cfg.Processing.ProvidersFile != "" {
		n, err := registry.RegisterFile(cfg.Processing.ProvidersFile)
		if err != nil {
			slog.Error("failed to load providers file",
				"path", cfg.Processing.ProvidersFile,
				"error", err,
			)
			os.Exit(1)
		}
		slog.Info("custom providers loaded", "count", n)
	}
	slog.Info("providers registered", "count", registry.Len())

	service := core.NewService(core.NewEngine(registry, cfg.Processing.Workers), store, core.ServiceConfig{
		MaxFileSize:   cfg.Processing.MaxFileSize,
		MaxConcurrent: cfg.Processing.MaxConcurrent,
		MaxWait:       cfg.Processing.MaxWaitTime,
		ResultTTL:     cfg.Processing.ResultTTL,
	})

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	if service.HistoryEnabled() {
		if err := service.StartHistoryPurge(jobCtx, core.PurgeConfig{
			Retention: cfg.History.Retention(),
			Schedule:  cfg.History.PurgeSchedule,
		}); err != nil {
			slog.Error("failed to schedule history purge", "error", err)
			os.Exit(1)
		}
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active runs to complete (with timeout)
		status := service.Status()
		if status.Active > 0 {
			slog.Info("waiting for runs to complete", "active", status.Active)
			if err := service.WaitForRuns(shutdownCtx); err != nil {
				slog.Warn("runs did not complete in time", "error", err)
			} else {
				slog.Info("all runs completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// openPool connects and pings the history database.
func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
