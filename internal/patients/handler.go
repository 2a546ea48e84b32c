package patients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slimfitai/clinic-platform/internal/risk"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for patients
type Handler struct {
	repo     Repository
	insights *Insights
	logger   *logging.Logger
}

// NewHandler creates a new patients handler
func NewHandler(repo Repository, insights *Insights, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		insights: insights,
		logger:   logger,
	}
}

// Create handles POST /patients requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p Patient
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), &p)
	if err != nil {
		h.logger.Error("failed to create patient", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("patient created", "id", created.ID, "name", created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /patients requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /patients/{patientID} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "patientID"))
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load patient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// InferInsights handles POST /patients/{patientID}/insights requests.
// Inferred memories are appended to the patient and returned.
func (h *Handler) InferInsights(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load patient", http.StatusInternalServerError)
		return
	}

	memories := h.insights.Infer(r.Context(), p)
	if len(memories) > 0 {
		if _, err := h.repo.AppendMemories(r.Context(), id, memories); err != nil {
			h.logger.Error("failed to append memories", "patient_id", id, "error", err)
		}
	}

	h.logger.Info("patient insights inferred", "patient_id", id, "count", len(memories))
	writeJSON(w, http.StatusOK, memories)
}

// TrustScoreResponse is the response for the trust score endpoint.
type TrustScoreResponse struct {
	PatientID  string `json:"patient_id"`
	TrustScore int    `json:"trust_score"`
}

// TrustScore handles GET /patients/{patientID}/trust-score requests.
// The derived score is persisted onto the patient record.
func (h *Handler) TrustScore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load patient", http.StatusInternalServerError)
		return
	}

	score := risk.TrustScore(p.History.TotalAppointments, p.History.NoShows)
	if err := h.repo.SetTrustScore(r.Context(), id, score); err != nil {
		h.logger.Error("failed to persist trust score", "patient_id", id, "error", err)
	}

	writeJSON(w, http.StatusOK, TrustScoreResponse{PatientID: id, TrustScore: score})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
