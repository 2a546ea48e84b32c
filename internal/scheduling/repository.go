package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context) ([]*Appointment, error)
	SaveAssessment(ctx context.Context, id string, score int, reasoning string) (*Appointment, error)
	SetStatus(ctx context.Context, id string, status Status) (*Appointment, error)
	SetAttendance(ctx context.Context, id string, status AttendanceStatus) (*Appointment, error)
	FindByQRHash(ctx context.Context, hash string) (*Appointment, error)
	RecordValidation(ctx context.Context, id string, log ValidationLog) (*Appointment, error)
}

// InMemoryRepository implements Repository with in-memory storage.
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[string]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		appointments: make(map[string]*Appointment),
	}
}

// Create stores a new appointment.
func (r *InMemoryRepository) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	stored := cloneRaw(a)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.Status == "" {
		stored.Status = StatusPending
	}
	if stored.AttendanceStatus == "" {
		stored.AttendanceStatus = AttendancePending
	}

	r.mu.Lock()
	r.appointments[stored.ID] = stored
	r.mu.Unlock()

	return clone(stored), nil
}

// GetByID retrieves an appointment by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return clone(a), nil
}

// List returns all appointments ordered by date then time.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		out = append(out, clone(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveAssessment persists a risk score and its reasoning, overwriting
// any prior value.
func (r *InMemoryRepository) SaveAssessment(ctx context.Context, id string, score int, reasoning string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.RiskScore = &score
	a.AIAnalysis = reasoning
	return clone(a), nil
}

// SetStatus updates the scheduling lifecycle status.
func (r *InMemoryRepository) SetStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	switch status {
	case StatusConfirmed, StatusPending, StatusCancelled, StatusCompleted:
	default:
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.Status = status
	return clone(a), nil
}

// SetAttendance updates the attendance status (declared/no-show/late
// transitions; verified check-ins go through RecordValidation).
func (r *InMemoryRepository) SetAttendance(ctx context.Context, id string, status AttendanceStatus) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.AttendanceStatus = status
	return clone(a), nil
}

// FindByQRHash looks an appointment up by its check-in code.
func (r *InMemoryRepository) FindByQRHash(ctx context.Context, hash string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appointments {
		if a.QRCodeHash != "" && a.QRCodeHash == hash {
			return clone(a), nil
		}
	}
	return nil, ErrAppointmentNotFound
}

// RecordValidation attaches a check-in validation log and marks
// attendance verified. A second validation for the same appointment is
// rejected; the log is written once and never mutated.
func (r *InMemoryRepository) RecordValidation(ctx context.Context, id string, log ValidationLog) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if a.ValidationLog != nil {
		return nil, ErrAlreadyValidated
	}
	if log.ValidatedAt.IsZero() {
		log.ValidatedAt = time.Now().UTC()
	}
	a.ValidationLog = &log
	a.AttendanceStatus = AttendanceVerified
	return clone(a), nil
}

// clone copies an appointment for return to callers, correcting the
// verified-presence invariant on every read: a verified appointment
// never exposes a stale nonzero risk score.
func clone(a *Appointment) *Appointment {
	cp := cloneRaw(a)
	if cp.Verified() {
		zero := 0
		cp.RiskScore = &zero
	}
	return cp
}

func cloneRaw(a *Appointment) *Appointment {
	cp := *a
	if a.RiskScore != nil {
		score := *a.RiskScore
		cp.RiskScore = &score
	}
	if a.ValidationLog != nil {
		log := *a.ValidationLog
		cp.ValidationLog = &log
	}
	return &cp
}
