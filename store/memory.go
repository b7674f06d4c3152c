package store

import (
	"context"
	"sync"
)

type inMemory struct {
	mu      sync.RWMutex
	storage map[string][]CartItem
}

func NewMemoryStore() CartStore {
	return &inMemory{}
}

func (m *inMemory) Items(ctx context.Context, threadID string) ([]CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.storage == nil {
		return nil, nil
	}
	items := m.storage[threadID]
	out := make([]CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *inMemory) Add(ctx context.Context, threadID string, item CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string][]CartItem)
	}
	m.storage[threadID] = append(m.storage[threadID], item)
	return nil
}

func (m *inMemory) Reset(ctx context.Context, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage != nil {
		delete(m.storage, threadID)
	}
	return nil
}
