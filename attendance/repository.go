package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"prayer-attendance-server/models"
)

// Repository persists the attendance store as a single document.
type Repository interface {
	// Load returns the whole store. A missing document is an empty store.
	Load(ctx context.Context) (models.AttendanceStore, error)
	// Update loads the store, applies fn and writes the result back atomically.
	// Concurrent updates never overwrite each other's unrelated changes.
	Update(ctx context.Context, fn func(models.AttendanceStore) error) error
	// Clear removes the whole document.
	Clear(ctx context.Context) error
}

// MemoryRepository keeps the store in process memory. It is used when no
// Redis is configured and in tests.
type MemoryRepository struct {
	mu  sync.Mutex
	doc []byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Load(_ context.Context) (models.AttendanceStore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decode()
}

func (m *MemoryRepository) Update(_ context.Context, fn func(models.AttendanceStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.decode()
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	doc, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("failed to encode attendance store: %w", err)
	}
	m.doc = doc
	return nil
}

func (m *MemoryRepository) Clear(_ context.Context) error {
	m.mu.Lock()
	m.doc = nil
	m.mu.Unlock()
	return nil
}

// decode works on a serialized copy so callers never share maps with the repository.
func (m *MemoryRepository) decode() (models.AttendanceStore, error) {
	store := models.AttendanceStore{}
	if len(m.doc) == 0 {
		return store, nil
	}
	if err := json.Unmarshal(m.doc, &store); err != nil {
		return nil, fmt.Errorf("failed to decode attendance store: %w", err)
	}
	return store, nil
}
