package patients

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Repository defines the interface for patient storage
type Repository interface {
	Create(ctx context.Context, p *Patient) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	AppendMemories(ctx context.Context, id string, memories []AIMemory) (*Patient, error)
	SetTrustScore(ctx context.Context, id string, score int) error
}

// InMemoryRepository implements Repository using in-memory storage.
// Each record is an independent unit; there are no cross-record
// transactions.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[string]*Patient
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		patients: make(map[string]*Patient),
	}
}

// Create stores a new patient after validating invariants.
func (r *InMemoryRepository) Create(ctx context.Context, p *Patient) (*Patient, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	stored := clone(p)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	r.mu.Lock()
	r.patients[stored.ID] = stored
	r.mu.Unlock()

	return clone(stored), nil
}

// GetByID retrieves a patient by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return clone(p), nil
}

// List returns all patients sorted by name.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AppendMemories adds inferred memories to a patient. Existing memories
// are never replaced or mutated.
func (r *InMemoryRepository) AppendMemories(ctx context.Context, id string, memories []AIMemory) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	for _, m := range memories {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		p.AIMemories = append(p.AIMemories, m)
	}
	return clone(p), nil
}

// SetTrustScore records a derived trust score on the patient.
func (r *InMemoryRepository) SetTrustScore(ctx context.Context, id string, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return ErrPatientNotFound
	}
	p.TrustScore = &score
	return nil
}

func clone(p *Patient) *Patient {
	cp := *p
	if p.Tags != nil {
		cp.Tags = append([]string(nil), p.Tags...)
	}
	if p.AIMemories != nil {
		cp.AIMemories = append([]AIMemory(nil), p.AIMemories...)
	}
	if p.TrustScore != nil {
		score := *p.TrustScore
		cp.TrustScore = &score
	}
	return &cp
}
