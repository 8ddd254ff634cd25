package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process fallback.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(_ context.Context, key string, value *string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == nil {
		delete(m.values, key)
		return
	}
	m.values[key] = *value
}

// Watch never emits: nothing else can write to this store.
func (m *MemoryStore) Watch(ctx context.Context, _ time.Duration) <-chan Event {
	ch := make(chan Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func (m *MemoryStore) Persistent() bool { return false }

func (m *MemoryStore) Close() error { return nil }
