package storage

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryBackend keeps values for the lifetime of the process.
// It stands in for per-session storage: one instance per session.
type MemoryBackend struct {
	id   string
	mu   sync.RWMutex
	data map[string]string
}

// NewSession creates an empty session store with a fresh id
func NewSession() *MemoryBackend {
	return &MemoryBackend{
		id:   uuid.NewString(),
		data: make(map[string]string),
	}
}

// ID identifies the session in logs
func (m *MemoryBackend) ID() string {
	return m.id
}

// GetItem returns the stored value or ErrNotFound
func (m *MemoryBackend) GetItem(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// SetItem stores value under key, replacing any previous value
func (m *MemoryBackend) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// RemoveItem deletes key. Removing a missing key is a no-op.
func (m *MemoryBackend) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
