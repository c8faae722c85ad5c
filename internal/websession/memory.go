package websession

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	blob      []byte
	expiresAt time.Time
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

// NewMemoryStore returns a Store suitable for tests and single-process dev
// runs. Expired entries are dropped on read and by DeleteExpired.
func NewMemoryStore() Store {
	return &memoryStore{sessions: map[string]memoryEntry{}}
}

func (m *memoryStore) Get(_ context.Context, sid string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.sessions[sid]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, ErrNoSession
	}
	return e.blob, nil
}

func (m *memoryStore) Set(_ context.Context, sid string, blob []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = memoryEntry{blob: blob, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *memoryStore) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

func (m *memoryStore) DeleteExpired(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	n := 0
	for sid, e := range m.sessions {
		if now.After(e.expiresAt) {
			delete(m.sessions, sid)
			n++
		}
	}
	return n, nil
}
