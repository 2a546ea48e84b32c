package waitlist

import (
	"encoding/json"
	"net/http"

	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for the waitlist
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new waitlist handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /waitlist requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var e Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), &e)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("waitlist entry added", "id", created.ID, "patient", created.PatientName, "priority", created.PriorityScore)
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /waitlist requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list waitlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// MatchRequest is the body for the slot-match endpoint.
type MatchRequest struct {
	SlotTime string `json:"slot_time"`
}

// MatchResponse reports the outcome of a slot match. Match is nil when
// the waitlist is empty.
type MatchResponse struct {
	Matched bool   `json:"matched"`
	Match   *Entry `json:"match,omitempty"`
}

// Match handles POST /waitlist/match requests. An empty waitlist is a
// normal no-match response, not an error.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entries, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list waitlist", http.StatusInternalServerError)
		return
	}

	match, ok := MatchSlot(req.SlotTime, entries)
	if !ok {
		writeJSON(w, http.StatusOK, MatchResponse{Matched: false})
		return
	}

	h.repo.RecordMatch(r.Context())
	h.logger.Info("waitlist slot matched", "entry_id", match.ID, "patient", match.PatientName, "slot_time", req.SlotTime)
	writeJSON(w, http.StatusOK, MatchResponse{Matched: true, Match: match})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
