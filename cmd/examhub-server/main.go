package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Krapic/examhub/internal/audit"
	"github.com/Krapic/examhub/internal/config"
	"github.com/Krapic/examhub/internal/logging"
	"github.com/Krapic/examhub/internal/service"
	"github.com/Krapic/examhub/internal/synth"
	"github.com/Krapic/examhub/internal/web"
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

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"generate_default", cfg.Generate.DefaultCount,
		"generate_max", cfg.Generate.MaxCount,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// Operation history lives in Postgres when DATABASE_URL is set and
	// in memory otherwise, so the server runs without any setup.
	var audits audit.Store
	if cfg.Database.URL == "" {
		slog.Warn("DATABASE_URL not set, keeping operation history in memory")
		audits = audit.NewMemory()
	} else {
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		if u, err := url.Parse(cfg.Database.URL); err == nil {
			slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database")
		}

		pg := audit.NewPG(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare history schema", "error", err)
			os.Exit(1)
		}
		audits = pg
	}

	profile := synth.DefaultConfig()
	if cfg.Generate.ProfilePath != "" {
		loaded, err := synth.LoadProfile(cfg.Generate.ProfilePath)
		if err != nil {
			slog.Error("failed to load generator profile", "error", err)
			os.Exit(1)
		}
		profile = loaded
		slog.Info("generator profile loaded", "path", cfg.Generate.ProfilePath)
	}

	svc := service.New(cfg.Generate, profile, audits)
	if err := svc.StartRetention(cfg.Retention.MaxAge, cfg.Retention.Schedule); err != nil {
		slog.Error("failed to start history retention", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(svc, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		svc.Close()
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}

	// Wait for the shutdown goroutine so in-flight requests drain and
	// the retention job stops cleanly.
	<-done
	slog.Info("server stopped")
}
