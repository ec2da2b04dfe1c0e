package alumni

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a process-local store for dev/testing.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []Record
	names   map[string]struct{}
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{names: make(map[string]struct{})}
}

// Create stores rec, enforcing the same name uniqueness as the Postgres index.
func (m *MemoryRepository) Create(_ context.Context, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := NameKey(rec.FirstName, rec.LastName)
	if _, ok := m.names[key]; ok {
		return Record{}, ErrDuplicateName
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.names[key] = struct{}{}
	m.records = append(m.records, rec)
	return rec, nil
}

// List returns a copy of all records in insertion order.
func (m *MemoryRepository) List(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Record(nil), m.records...), nil
}

// Get returns the record with the given id.
func (m *MemoryRepository) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

// ExistsByName reports whether the name is taken, ignoring case.
func (m *MemoryRepository) ExistsByName(_ context.Context, firstName, lastName string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.names[NameKey(firstName, lastName)]
	return ok, nil
}

// UpdatePicture replaces the profile picture of a stored record.
func (m *MemoryRepository) UpdatePicture(_ context.Context, id, picture string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].ProfilePicture = picture
			return nil
		}
	}
	return ErrNotFound
}
