package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trustestate/internal/platform/config"
	"trustestate/internal/platform/httpserver"
	"trustestate/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Server.Environment, cfg.Server.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("trustestate stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	app := buildApp(cfg, infra, log)
	// Drain buffered audit entries before the database goes away.
	defer app.audit.Close()

	if err := app.seedAdmin(ctx, cfg.Seed); err != nil {
		return err
	}

	srv := httpserver.New(cfg.Server.Addr, newRouter(app, infra, log))

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting trustestate",
			"addr", cfg.Server.Addr,
			"env", cfg.Server.Environment,
			"postgres", infra.db != nil,
			"redis", infra.redis != nil,
			"kafka", infra.kafka != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
