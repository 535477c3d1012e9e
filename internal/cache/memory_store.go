package cache

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a map backed Store. It does not survive restarts, so it only
// stands in for the durable tier in tests.
type MemoryStore struct {
	entries map[string][]byte
	mutex   sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
	}
}

func (ms *MemoryStore) Read(_ context.Context, key string) ([]byte, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if val, ok := ms.entries[key]; ok {
		return val, nil
	}
	return nil, ErrNotFound
}

func (ms *MemoryStore) Write(_ context.Context, key string, value []byte) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.entries[key] = value
	return nil
}

func (ms *MemoryStore) Len() int {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	return len(ms.entries)
}
