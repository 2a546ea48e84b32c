package waitlist

import (
	"errors"
	"time"
)

// Entry is a patient waiting for a slot to open up. PriorityScore is
// assigned externally (0-100); the matcher never recomputes it.
type Entry struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id,omitempty"`
	PatientName    string    `json:"patient_name"`
	DesiredService string    `json:"desired_service,omitempty"`
	AvailableDays  []string  `json:"available_days,omitempty"`
	PriorityScore  int       `json:"priority_score"`
	AddedAt        time.Time `json:"added_at"`
}

var (
	// ErrInvalidEntry indicates a waitlist entry that fails validation.
	ErrInvalidEntry = errors.New("waitlist entry requires a patient name and a priority score between 0 and 100")

	// ErrEntryNotFound indicates the requested entry does not exist.
	ErrEntryNotFound = errors.New("waitlist entry not found")
)

// Validate checks entry invariants before storage.
func (e *Entry) Validate() error {
	if e.PatientName == "" || e.PriorityScore < 0 || e.PriorityScore > 100 {
		return ErrInvalidEntry
	}
	return nil
}
