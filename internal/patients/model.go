package patients

import "strings"

// MemoryType classifies an AI-inferred fact about a patient.
type MemoryType string

const (
	MemoryPreference  MemoryType = "preference"
	MemoryBehavior    MemoryType = "behavior"
	MemoryMedical     MemoryType = "medical"
	MemoryFinancial   MemoryType = "financial"
	MemoryRestriction MemoryType = "restriction"
)

// MemorySource records where an AI memory came from.
type MemorySource string

const (
	SourceConversation MemorySource = "conversation"
	SourceHistory      MemorySource = "history"
	SourceManual       MemorySource = "manual"
)

// AIMemory is a typed, confidence-scored inferred fact about a patient.
// Memories are append-only per patient.
type AIMemory struct {
	ID         string       `json:"id"`
	Type       MemoryType   `json:"type"`
	Content    string       `json:"content"`
	Confidence int          `json:"confidence"`
	Source     MemorySource `json:"source"`
	DetectedAt string       `json:"detected_at"`
}

// History aggregates a patient's attendance record.
type History struct {
	TotalAppointments int     `json:"total_appointments"`
	NoShows           int     `json:"no_shows"`
	LastVisit         string  `json:"last_visit"`
	TicketAverage     float64 `json:"ticket_average,omitempty"`
}

// Patient identifies a person and their attendance history.
type Patient struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email,omitempty"`
	History    History    `json:"history"`
	Tags       []string   `json:"tags,omitempty"`
	AIMemories []AIMemory `json:"ai_memories,omitempty"`
	TrustScore *int       `json:"trust_score,omitempty"`
}

// Validate enforces the patient invariants.
func (p *Patient) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.History.NoShows < 0 || p.History.TotalAppointments < 0 {
		return ErrInvalidHistory
	}
	if p.History.NoShows > p.History.TotalAppointments {
		return ErrInvalidHistory
	}
	return nil
}
