package state

import (
	"context"
	"sync"
)

// MemoryStateStore keeps values for the lifetime of the process.
type MemoryStateStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{data: make(map[string]string)}
}

func (m *MemoryStateStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStateStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStateStore) Close() error {
	return nil
}
