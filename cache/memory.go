package cache

import (
	"context"
	"sync"
	"time"
)

var _ Cache = (*Memory)(nil)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache. Expired entries are dropped lazily on Get
// and swept on Set once the map grows past sweepThreshold.
type Memory struct {
	entries map[string]memoryEntry
	now     func() time.Time
	lock    sync.RWMutex
}

const sweepThreshold = 256

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryWithClock is used by tests that need to move time forward
func NewMemoryWithClock(now func() time.Time) *Memory {
	m := NewMemory()
	m.now = now
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.lock.RLock()
	entry, ok := m.entries[key]
	m.lock.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		m.lock.Lock()
		if current, ok := m.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, key)
		}
		m.lock.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.lock.Lock()
	defer m.lock.Unlock()

	now := m.now()
	if len(m.entries) >= sweepThreshold {
		for k, e := range m.entries {
			if !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}
	m.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: now.Add(ttl),
	}
	return nil
}

// Len returns the number of stored entries, expired or not
func (m *Memory) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.entries)
}
