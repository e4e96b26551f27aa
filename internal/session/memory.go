package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-process default store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

func (m *MemoryStore) Get(ctx context.Context, discordID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[discordID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Put(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.sessions[s.DiscordID] = &cp
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, discordID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, discordID)
	return nil
}

// StartSweep removes long-expired sessions in the background. Expiry is
// enforced at confirm time regardless; the sweep is hygiene only.
func (m *MemoryStore) StartSweep(interval, grace time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-grace)
			m.mu.Lock()
			for id, s := range m.sessions {
				if s.ExpiresAt.Before(cutoff) {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}()
}
