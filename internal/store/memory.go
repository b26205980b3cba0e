package store

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value  string
	expiry time.Time // zero means no expiry
}

// memoryStore is a process-local KVStore with real TTL bookkeeping. It is a
// deliberate startup choice (STORE_BACKEND=memory) for local development and
// tests, never a fallback the service degrades into at runtime.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() KVStore {
	return &memoryStore{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// NewMemoryStoreAt is NewMemoryStore with an injectable clock, used by tests
// that need to observe expiry without sleeping.
func NewMemoryStoreAt(now func() time.Time) KVStore {
	return &memoryStore{
		data: make(map[string]memoryEntry),
		now:  now,
	}
}

func (m *memoryStore) live(e memoryEntry) bool {
	return e.expiry.IsZero() || e.expiry.After(m.now())
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok || !m.live(e) {
		return "", ErrNotFound
	}
	return e.value, nil
}

func (m *memoryStore) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	var expiry time.Time
	if expiration > 0 {
		expiry = m.now().Add(expiration)
	}
	m.mu.Lock()
	m.data[key] = memoryEntry{value: value, expiry: expiry}
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	return ok && m.live(e), nil
}

func (m *memoryStore) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok || !m.live(e) {
		m.data[key] = memoryEntry{value: "1"}
		return 1, nil
	}
	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	m.data[key] = e
	return n, nil
}

func (m *memoryStore) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok || !m.live(e) {
		return false, nil
	}
	e.expiry = m.now().Add(expiration)
	m.data[key] = e
	return true, nil
}

func (m *memoryStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok || !m.live(e) {
		return 0, ErrNotFound
	}
	if e.expiry.IsZero() {
		return 0, nil
	}
	return e.expiry.Sub(m.now()), nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k, e := range m.data {
		if !m.live(e) {
			continue
		}
		if ok, err := filepath.Match(pattern, k); err == nil && ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *memoryStore) Ping(ctx context.Context) error {
	return nil
}
