package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. It is used when Redis is not
// configured; expired records stay until Sweep removes them.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]Session // ID -> Session
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
	}
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || s.Expired(time.Now()) {
		return Session{}, ErrNoSession
	}
	return s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Sweep drops every session expired at now and returns how many went.
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	m.lastSweep = now
	return removed
}

// Stats counts expired records too until the next sweep.
func (m *MemoryStore) Stats(context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Stats{Backend: "memory", Active: len(m.sessions), LastSweep: m.lastSweep}, nil
}
