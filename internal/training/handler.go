package training

import (
	"encoding/json"
	"net/http"

	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for training operations
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new training handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Queue handles GET /training/queue requests
func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.LabelingQueue(r.Context()))
}

// CorrectionRequest is the body for correction submissions.
type CorrectionRequest struct {
	ExampleID string `json:"example_id"`
	Label     string `json:"label"`
}

// SubmitCorrection handles POST /training/corrections requests
func (h *Handler) SubmitCorrection(w http.ResponseWriter, r *http.Request) {
	var req CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ExampleID == "" || req.Label == "" {
		http.Error(w, "example_id and label are required", http.StatusBadRequest)
		return
	}

	c := h.service.SubmitCorrection(r.Context(), req.ExampleID, req.Label)
	writeJSON(w, http.StatusCreated, c)
}

// Metrics handles GET /training/metrics requests
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Metrics(r.Context()))
}

// ProcessFileRequest is the body for training-file processing.
type ProcessFileRequest struct {
	FileType string `json:"file_type"`
}

// ProcessFile handles POST /training/files requests
func (h *Handler) ProcessFile(w http.ResponseWriter, r *http.Request) {
	var req ProcessFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FileType == "" {
		req.FileType = "csv"
	}

	writeJSON(w, http.StatusOK, h.service.ProcessFile(r.Context(), req.FileType))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
