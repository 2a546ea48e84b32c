package waitlist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for waitlist storage
type Repository interface {
	Create(ctx context.Context, e *Entry) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
	Remove(ctx context.Context, id string) error
	RecordMatch(ctx context.Context)
	MatchCount(ctx context.Context) int
}

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	matches int
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries: make(map[string]*Entry),
	}
}

// Create stores a new waitlist entry after validating invariants.
func (r *InMemoryRepository) Create(ctx context.Context, e *Entry) (*Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	stored := cloneEntry(e)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.AddedAt.IsZero() {
		stored.AddedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.entries[stored.ID] = stored
	r.mu.Unlock()

	return cloneEntry(stored), nil
}

// List returns all entries in insertion order (oldest first). Order
// matters to the matcher: ties on priority go to the earliest entry.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, cloneEntry(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out, nil
}

// Remove deletes an entry, typically after a successful match.
func (r *InMemoryRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

// RecordMatch counts a successful slot match. The counter feeds the
// recovered-slots KPI.
func (r *InMemoryRepository) RecordMatch(ctx context.Context) {
	r.mu.Lock()
	r.matches++
	r.mu.Unlock()
}

// MatchCount returns how many slot matches have been recorded.
func (r *InMemoryRepository) MatchCount(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matches
}

func cloneEntry(e *Entry) *Entry {
	cp := *e
	if e.AvailableDays != nil {
		cp.AvailableDays = append([]string(nil), e.AvailableDays...)
	}
	return &cp
}
