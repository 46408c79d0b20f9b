package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps snapshots in process memory. It backs tests and the
// "memory" store backend.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[Collection]Snapshot
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[Collection]Snapshot)}
}

func (m *MemoryBackend) Load(_ context.Context, c Collection) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.data[c]
	if !ok {
		return Snapshot{}, ErrCollectionNotFound
	}
	return Snapshot{Data: slices.Clone(snap.Data), Version: snap.Version}, nil
}

func (m *MemoryBackend) Save(_ context.Context, c Collection, data []byte, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, exists := m.data[c]
	switch {
	case expectedVersion == AnyVersion:
	case expectedVersion == 0:
		if exists {
			return 0, ErrVersionConflict
		}
	default:
		if !exists || cur.Version != expectedVersion {
			return 0, ErrVersionConflict
		}
	}
	next := cur.Version + 1
	m.data[c] = Snapshot{Data: slices.Clone(data), Version: next}
	return next, nil
}

func (m *MemoryBackend) Close(context.Context) error { return nil }
