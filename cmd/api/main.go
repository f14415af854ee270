// Package main is the entry point for the BloomNet API server.
// Its sole responsibility is wiring dependencies together and starting the
// server and the expiry sweeper. No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bloomnet/backend/internal/config"
	"github.com/bloomnet/backend/internal/handler"
	"github.com/bloomnet/backend/internal/kv"
	"github.com/bloomnet/backend/internal/middleware"
	"github.com/bloomnet/backend/internal/repo"
	"github.com/bloomnet/backend/internal/store"
	"github.com/bloomnet/backend/internal/sweep"
)

// maxBodyBytes caps request bodies; donation posts are small JSON documents.
const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Default text logger; the JSON logger is not configured yet.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Persistence ------------------------------------------------------
	// bbolt holds a file lock for the lifetime of the process; a second
	// instance on the same DATA_PATH fails fast instead of corrupting data.
	db, err := kv.OpenBolt(cfg.DataPath)
	if err != nil {
		slog.Error("failed to open data file", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("data file opened", "path", cfg.DataPath)

	// --- Store ------------------------------------------------------------
	// Load recovers from missing or corrupt data by starting empty, and
	// seeds the demo donations on a first run.
	donations := store.New(repo.NewDonationRepo(db), logger)
	donations.Load(time.Now())
	sessions := repo.NewUserRepo(db)

	// --- Expiry sweeper ---------------------------------------------------
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweep.New(donations, logger, cfg.SweepInterval).Run(sweepCtx)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit. RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind
	// a proxy). SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	srv := handler.NewServer(donations, sessions)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout is generous because /api/events holds its response open.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
