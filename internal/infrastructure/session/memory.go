// Package session keeps login session blobs in memory or in Redis.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	domain "github.com/geritapp/gerit/internal/domain/auth"
)

type entry struct {
	value   []byte
	expires time.Time
}

// MemoryStore expires entries lazily on Get.
type MemoryStore struct {
	clock clockwork.Clock

	mu   sync.Mutex
	data map[string]entry
}

func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{clock: clock, data: make(map[string]entry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !e.expires.IsZero() && !m.clock.Now().Before(e.expires) {
		delete(m.data, key)
		return nil, domain.ErrSessionNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores value; a non-positive ttl keeps it until deleted.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.clock.Now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
