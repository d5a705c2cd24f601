package presence

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store for runs without redis.
type MemoryStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryStore) Touch(_ context.Context, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires[userID] = m.now().Add(ttl)
	return nil
}

func (m *MemoryStore) Online(_ context.Context, userIDs []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		until, ok := m.expires[id]
		if !ok {
			continue
		}
		if !now.Before(until) {
			delete(m.expires, id)
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// Sweep forgets users whose presence has lapsed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, until := range m.expires {
		if !now.Before(until) {
			delete(m.expires, id)
			removed++
		}
	}
	return removed
}
