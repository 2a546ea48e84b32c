package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/slimfitai/clinic-platform/internal/observability/metrics"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments and check-ins
type Handler struct {
	repo     Repository
	service  *Service
	importer *Importer
	metrics  *metrics.PipelineMetrics
	logger   *logging.Logger
}

// NewHandler creates a new scheduling handler
func NewHandler(repo Repository, service *Service, importer *Importer, m *metrics.PipelineMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		service:  service,
		importer: importer,
		metrics:  m,
		logger:   logger,
	}
}

// Create handles POST /appointments requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var a Appointment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), &a)
	if err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("appointment created", "id", created.ID, "patient", created.PatientName)
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /appointments requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /appointments/{appointmentID} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Analyze handles POST /appointments/{appointmentID}/analyze requests.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	result, err := h.service.AnalyzeRisk(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("risk analysis failed", "appointment_id", id, "error", err)
		http.Error(w, "failed to analyze appointment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UpdateStatusRequest is the request body for status updates.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus handles PUT /appointments/{appointmentID}/status requests
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.repo.SetStatus(r.Context(), chi.URLParam(r, "appointmentID"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to update status", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateAttendanceRequest is the request body for attendance updates.
type UpdateAttendanceRequest struct {
	AttendanceStatus AttendanceStatus `json:"attendance_status"`
}

// UpdateAttendance handles PUT /appointments/{appointmentID}/attendance
// requests for declared/no-show/late transitions. Verified transitions
// only happen through check-in validation.
func (h *Handler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	var req UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.AttendanceStatus {
	case AttendancePending, AttendanceUserDeclared, AttendanceNoShow, AttendanceLate:
	default:
		http.Error(w, "invalid attendance status", http.StatusBadRequest)
		return
	}

	a, err := h.repo.SetAttendance(r.Context(), chi.URLParam(r, "appointmentID"), req.AttendanceStatus)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update attendance", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ImportRequest is the request body for agenda import.
type ImportRequest struct {
	RawText string `json:"raw_text"`
}

// ImportResponse carries the reviewable drafts.
type ImportResponse struct {
	Drafts []DraftAppointment `json:"drafts"`
	Count  int                `json:"count"`
}

// Import handles POST /appointments/import requests. Drafts are
// returned for review, never scheduled directly.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.RawText) == "" {
		http.Error(w, "raw_text is required", http.StatusBadRequest)
		return
	}

	drafts := h.importer.Parse(r.Context(), req.RawText)
	h.metrics.ObserveImportedDrafts(len(drafts))
	h.logger.Info("agenda imported", "drafts", len(drafts))

	writeJSON(w, http.StatusOK, ImportResponse{Drafts: drafts, Count: len(drafts)})
}

// CheckinRequest is the request body for QR check-in validation.
type CheckinRequest struct {
	Hash        string `json:"hash"`
	ValidatedBy string `json:"validated_by"`
}

// Checkin handles POST /checkin/qr requests.
func (h *Handler) Checkin(w http.ResponseWriter, r *http.Request) {
	var req CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Hash) == "" {
		http.Error(w, "hash is required", http.StatusBadRequest)
		return
	}

	result := h.service.ValidateQRCode(r.Context(), req.Hash, req.ValidatedBy)
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
