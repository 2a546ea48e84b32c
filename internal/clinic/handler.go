package clinic

import (
	"encoding/json"
	"net/http"

	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// Handler serves the dashboard snapshot
type Handler struct {
	service *DashboardService
	logger  *logging.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(service *DashboardService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// GetDashboard handles GET /dashboard requests
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("failed to compute dashboard", "error", err)
		http.Error(w, "failed to compute dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}
