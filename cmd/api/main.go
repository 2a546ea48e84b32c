package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slimfitai/clinic-platform/internal/ai"
	"github.com/slimfitai/clinic-platform/internal/api/router"
	"github.com/slimfitai/clinic-platform/internal/clinic"
	appconfig "github.com/slimfitai/clinic-platform/internal/config"
	"github.com/slimfitai/clinic-platform/internal/demo"
	"github.com/slimfitai/clinic-platform/internal/messaging"
	"github.com/slimfitai/clinic-platform/internal/observability/metrics"
	"github.com/slimfitai/clinic-platform/internal/patients"
	"github.com/slimfitai/clinic-platform/internal/risk"
	"github.com/slimfitai/clinic-platform/internal/scheduling"
	"github.com/slimfitai/clinic-platform/internal/training"
	"github.com/slimfitai/clinic-platform/internal/waitlist"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

func main() {
	// Best-effort .env loading for local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"offline_mode", cfg.OfflineMode(),
	)

	// AI collaborator. An absent API key selects the deterministic
	// offline mode across every component.
	var client ai.Client
	if !cfg.OfflineMode() {
		gemini, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		client = gemini
	}

	seed := cfg.OfflineSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Repositories and stores
	patientRepo := patients.NewInMemoryRepository()
	apptRepo := scheduling.NewInMemoryRepository()
	waitlistRepo := waitlist.NewInMemoryRepository()
	sessions := messaging.NewSessionStore()
	personality := messaging.NewConfigStore()

	// Services
	pipelineMetrics := metrics.NewPipelineMetrics(nil)
	scorer := risk.NewScorer(client, rand.New(rand.NewSource(seed)), logger)
	importer := scheduling.NewImporter(client, logger)
	insights := patients.NewInsights(client, logger)
	generator := messaging.NewGenerator(client, personality, logger)
	schedSvc := scheduling.NewService(apptRepo, patientRepo, scorer, pipelineMetrics, logger, cfg.LLMTimeout)
	trainingSvc := training.NewService(rand.New(rand.NewSource(seed)), logger)
	dashboard := clinic.NewDashboardService(apptRepo, waitlistRepo, sessions)

	if cfg.SeedDemoData {
		if err := demo.Seed(context.Background(), patientRepo, apptRepo, waitlistRepo, sessions, logger); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	// Router
	r := router.New(&router.Config{
		Logger:             logger,
		SchedulingHandler:  scheduling.NewHandler(apptRepo, schedSvc, importer, pipelineMetrics, logger),
		PatientsHandler:    patients.NewHandler(patientRepo, insights, logger),
		WaitlistHandler:    waitlist.NewHandler(waitlistRepo, logger),
		MessagingHandler:   messaging.NewHandler(generator, sessions, personality, apptRepo, pipelineMetrics, logger),
		TrainingHandler:    training.NewHandler(trainingSvc, logger),
		DashboardHandler:   clinic.NewHandler(dashboard, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
