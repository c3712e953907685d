package cache

import (
	"context"
	"sync"
)

// Memory is an in-memory Store for tests. Thread-safe; blobs are copied on
// both read and write to prevent external mutation.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory creates an empty in-memory cache store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Get returns the blob for a dataset, or ErrNotFound.
func (m *Memory) Get(_ context.Context, datasetID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.blobs[datasetID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), blob...), nil
}

// Put stores the blob for a dataset.
func (m *Memory) Put(_ context.Context, datasetID string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[datasetID] = append([]byte(nil), blob...)
	return nil
}

// Delete removes the blob for a dataset. Deleting an absent blob is a no-op.
func (m *Memory) Delete(_ context.Context, datasetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, datasetID)
	return nil
}
