package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/slimfitai/clinic-platform/internal/clinic"
	httpmiddleware "github.com/slimfitai/clinic-platform/internal/http/middleware"
	"github.com/slimfitai/clinic-platform/internal/messaging"
	"github.com/slimfitai/clinic-platform/internal/patients"
	"github.com/slimfitai/clinic-platform/internal/scheduling"
	"github.com/slimfitai/clinic-platform/internal/training"
	"github.com/slimfitai/clinic-platform/internal/waitlist"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	SchedulingHandler  *scheduling.Handler
	PatientsHandler    *patients.Handler
	WaitlistHandler    *waitlist.Handler
	MessagingHandler   *messaging.Handler
	TrainingHandler    *training.Handler
	DashboardHandler   *clinic.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP rate limiting; zero RPS disables it.
	RateLimitRPS   int
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitRPS > 0 {
		r.Use(httpmiddleware.RateLimit(float64(cfg.RateLimitRPS), cfg.RateLimitBurst))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", cfg.SchedulingHandler.Create)
		r.Get("/", cfg.SchedulingHandler.List)
		r.Post("/import", cfg.SchedulingHandler.Import)
		r.Route("/{appointmentID}", func(r chi.Router) {
			r.Get("/", cfg.SchedulingHandler.Get)
			r.Post("/analyze", cfg.SchedulingHandler.Analyze)
			r.Put("/status", cfg.SchedulingHandler.UpdateStatus)
			r.Put("/attendance", cfg.SchedulingHandler.UpdateAttendance)
			r.Post("/recovery-message", cfg.MessagingHandler.RecoveryMessage)
		})
	})

	r.Post("/checkin/qr", cfg.SchedulingHandler.Checkin)

	r.Route("/patients", func(r chi.Router) {
		r.Post("/", cfg.PatientsHandler.Create)
		r.Get("/", cfg.PatientsHandler.List)
		r.Route("/{patientID}", func(r chi.Router) {
			r.Get("/", cfg.PatientsHandler.Get)
			r.Post("/insights", cfg.PatientsHandler.InferInsights)
			r.Get("/trust-score", cfg.PatientsHandler.TrustScore)
		})
	})

	r.Route("/waitlist", func(r chi.Router) {
		r.Post("/", cfg.WaitlistHandler.Create)
		r.Get("/", cfg.WaitlistHandler.List)
		r.Post("/match", cfg.WaitlistHandler.Match)
	})

	r.Route("/chats", func(r chi.Router) {
		r.Post("/", cfg.MessagingHandler.CreateChat)
		r.Get("/", cfg.MessagingHandler.ListChats)
		r.Get("/{chatID}", cfg.MessagingHandler.GetChat)
		r.Post("/{chatID}/reply", cfg.MessagingHandler.Reply)
	})

	r.Route("/settings/personality", func(r chi.Router) {
		r.Get("/", cfg.MessagingHandler.GetPersonality)
		r.Put("/", cfg.MessagingHandler.SavePersonality)
	})

	r.Route("/training", func(r chi.Router) {
		r.Get("/queue", cfg.TrainingHandler.Queue)
		r.Post("/corrections", cfg.TrainingHandler.SubmitCorrection)
		r.Get("/metrics", cfg.TrainingHandler.Metrics)
		r.Post("/files", cfg.TrainingHandler.ProcessFile)
	})

	r.Get("/dashboard", cfg.DashboardHandler.GetDashboard)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
