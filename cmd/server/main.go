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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Harikrish-25/period-care/internal/app"
	"github.com/Harikrish-25/period-care/internal/config"
	"github.com/Harikrish-25/period-care/internal/handlers"
	"github.com/Harikrish-25/period-care/internal/jobs"
	"github.com/Harikrish-25/period-care/internal/telemetry"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited gracefully.")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Storage, cache and services
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	api, err := a.API()
	if err != nil {
		return err
	}

	// 3. Routes
	mux := api.Routes()
	mux.Handle("GET /metrics", promhttp.Handler())

	proxies, err := handlers.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	// Chain: Real IP -> Request ID -> Logger -> Security Headers -> CORS -> Metrics -> Mux
	handler := handlers.RealIPMiddleware(proxies)(
		handlers.RequestIDMiddleware(
			handlers.LoggingMiddleware(
				handlers.SecurityHeadersMiddleware(
					handlers.CORSMiddleware(cfg.CORSOrigins)(
						telemetry.Middleware(mux),
					),
				),
			),
		),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var sched *jobs.Scheduler
	if cfg.SchedulerEnabled {
		if sched, err = a.Scheduler(); err != nil {
			return err
		}
	}

	// 4. Serve and schedule until a signal arrives
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "port", cfg.Port, "backend", cfg.DBBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if sched != nil {
		g.Go(func() error { return sched.Run(gctx) })
	} else {
		slog.Info("Reminder scheduler disabled")
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
