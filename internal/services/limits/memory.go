package limits

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryCounter is a process-local CounterStore. Its state does not survive restarts.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]memoryWindow
	now     func() time.Time
}

type memoryWindow struct {
	count    int64
	closesAt time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		windows: make(map[string]memoryWindow),
		now:     time.Now,
	}
}

func (m *MemoryCounter) IncrementWindow(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if key == "" || window <= 0 {
		return 0, 0, fmt.Errorf("invalid counter window payload")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.closesAt) {
		w = memoryWindow{closesAt: now.Add(window)}
	}
	w.count++
	m.windows[key] = w

	return w.count, w.closesAt.Sub(now), nil
}

func (m *MemoryCounter) WindowState(_ context.Context, key string, _ time.Duration) (int64, time.Duration, error) {
	if key == "" {
		return 0, 0, fmt.Errorf("counter key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.closesAt) {
		delete(m.windows, key)
		return 0, 0, nil
	}
	return w.count, w.closesAt.Sub(now), nil
}

func (m *MemoryCounter) ReleaseWindow(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("counter key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || !m.now().Before(w.closesAt) || w.count <= 0 {
		return nil
	}
	w.count--
	m.windows[key] = w
	return nil
}

// Sweep drops closed windows and returns how many were removed.
func (m *MemoryCounter) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, w := range m.windows {
		if !now.Before(w.closesAt) {
			delete(m.windows, key)
			removed++
		}
	}
	return removed
}
