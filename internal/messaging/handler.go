package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slimfitai/clinic-platform/internal/observability/metrics"
	"github.com/slimfitai/clinic-platform/internal/risk"
	"github.com/slimfitai/clinic-platform/internal/scheduling"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// AppointmentSource provides the appointments recovery messages are
// drafted for.
type AppointmentSource interface {
	GetByID(ctx context.Context, id string) (*scheduling.Appointment, error)
}

// Handler handles HTTP requests for messaging
type Handler struct {
	generator *Generator
	sessions  *SessionStore
	config    *ConfigStore
	appts     AppointmentSource
	metrics   *metrics.PipelineMetrics
	logger    *logging.Logger
}

// NewHandler creates a new messaging handler
func NewHandler(generator *Generator, sessions *SessionStore, config *ConfigStore, appts AppointmentSource, m *metrics.PipelineMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		generator: generator,
		sessions:  sessions,
		config:    config,
		appts:     appts,
		metrics:   m,
		logger:    logger,
	}
}

// RecoveryMessageResponse carries a drafted message. The draft is never
// sent automatically.
type RecoveryMessageResponse struct {
	AppointmentID string    `json:"appointment_id"`
	Tier          risk.Tier `json:"tier"`
	Message       string    `json:"message"`
}

// RecoveryMessage handles POST /appointments/{appointmentID}/recovery-message requests
func (h *Handler) RecoveryMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	appt, err := h.appts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, scheduling.ErrAppointmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}

	score := 0
	if appt.RiskScore != nil {
		score = *appt.RiskScore
	}
	tier := risk.TierFromScore(score)

	msg := h.generator.RecoveryMessage(r.Context(), Appointment{
		PatientName: appt.PatientName,
		Service:     appt.Service,
		Time:        appt.Time,
	}, tier)

	h.metrics.ObserveMessage(string(tier))
	h.logger.Info("recovery message drafted", "appointment_id", id, "tier", tier)
	writeJSON(w, http.StatusOK, RecoveryMessageResponse{AppointmentID: id, Tier: tier, Message: msg})
}

// CreateChat handles POST /chats requests
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var sess ChatSession
	if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if sess.PatientName == "" {
		http.Error(w, "patient_name is required", http.StatusBadRequest)
		return
	}

	created, err := h.sessions.Create(r.Context(), &sess)
	if err != nil {
		http.Error(w, "failed to create chat session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListChats handles GET /chats requests
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	list, err := h.sessions.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list chat sessions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetChat handles GET /chats/{chatID} requests
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.GetByID(r.Context(), chi.URLParam(r, "chatID"))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load chat session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// ReplyRequest is the body for the chat reply endpoint.
type ReplyRequest struct {
	Text string `json:"text"`
}

// Reply handles POST /chats/{chatID}/reply requests: the patient's
// message is appended, the assistant drafts a reply, and the updated
// session is returned.
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "chatID")
	sess, err := h.sessions.AppendMessage(r.Context(), id, Message{Sender: SenderUser, Text: req.Text})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to record message", http.StatusInternalServerError)
		return
	}

	reply := h.generator.ChatReply(r.Context(), sess.Messages, sess.PatientName)
	sess, err = h.sessions.AppendMessage(r.Context(), id, Message{Sender: SenderAI, Text: reply, Status: StatusDelivered})
	if err != nil {
		http.Error(w, "failed to record reply", http.StatusInternalServerError)
		return
	}

	h.logger.Info("chat reply drafted", "chat_id", id)
	writeJSON(w, http.StatusOK, sess)
}

// GetPersonality handles GET /settings/personality requests
func (h *Handler) GetPersonality(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.config.Get(r.Context()))
}

// SavePersonality handles PUT /settings/personality requests. The
// configuration is replaced wholesale.
func (h *Handler) SavePersonality(w http.ResponseWriter, r *http.Request) {
	var cfg PersonalityConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.config.Save(r.Context(), cfg)
	h.logger.Info("personality config saved")
	writeJSON(w, http.StatusOK, cfg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
