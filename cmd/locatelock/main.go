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

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/config"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/engine"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/handler"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/obs"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/service"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Instantiate stores.
	inventoryStore := store.NewInventoryStore()
	restrictionStore := store.NewRestrictionStore()
	ledgerStore := store.NewLedgerStore()
	webhookStore := store.NewWebhookStore()

	if cfg.Seed {
		store.SeedDefaults(inventoryStore, restrictionStore)
		logger.Info("seeded default inventory and restricted list")
	}

	// Engine.
	gatekeeper := engine.NewGatekeeper(inventoryStore, restrictionStore, ledgerStore)

	// Metrics register against the default prometheus registry once per process.
	metrics := obs.NewMetrics(func() float64 {
		return float64(inventoryStore.TotalLendable())
	})

	// Services (webhook first — it is every other service's dispatcher).
	webhookSvc := service.NewWebhookService(webhookStore, cfg.WebhookTimeout)
	locateSvc := service.NewLocateService(gatekeeper, webhookSvc, metrics)
	inventorySvc := service.NewInventoryService(gatekeeper, inventoryStore, webhookSvc)
	restrictionSvc := service.NewRestrictionService(restrictionStore, webhookSvc)
	auditSvc := service.NewAuditService(ledgerStore)

	// Router.
	router := handler.NewRouter(locateSvc, inventorySvc, restrictionSvc, auditSvc, webhookSvc, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
