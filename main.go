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

	"github.com/msomdec/notes-api/internal/config"
	"github.com/msomdec/notes-api/internal/domain"
	"github.com/msomdec/notes-api/internal/handler"
	"github.com/msomdec/notes-api/internal/repository/postgres"
	"github.com/msomdec/notes-api/internal/repository/sqlite"
	"github.com/msomdec/notes-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := openStore(context.Background(), cfg.Store)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.Store.Driver)

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(db.Users(), tokens, cfg.Auth.BcryptCost)
	noteService := service.NewNoteService(db.Notes())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, noteService, db)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Chain(mux, handler.LogRequests, handler.SecurityHeaders),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore connects to the configured backend. Pool sizes have already been
// range-checked by config.Validate.
func openStore(ctx context.Context, cfg config.StoreConfig) (domain.Database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, postgres.Config{
			DSN:             cfg.PostgresDSN,
			MaxConns:        int32(cfg.MaxConns),
			MinConns:        int32(cfg.MinConns),
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
	default:
		return sqlite.New(cfg.SQLitePath)
	}
}
