package storage

import (
	"context"
	"sync"

	"github.com/desertthunder/libratech/internal/shared"
)

// MemoryKV is a thread-safe in-memory [Store].
//
// Values are copied on read and write so callers can't mutate stored bytes.
type MemoryKV struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryKV creates an empty [MemoryKV].
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, shared.ErrStorageClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, shared.ErrKeyNotFound
	}
	return clone(v), nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	return m.SetMany(ctx, []Entry{{Key: key, Value: value}})
}

// SetMany applies all entries under a single write lock.
func (m *MemoryKV) SetMany(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return shared.ErrStorageClosed
	}
	for _, e := range entries {
		m.data[e.Key] = clone(e.Value)
	}
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return shared.ErrStorageClosed
	}
	delete(m.data, key)
	return nil
}

// Len reports the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close drops all data; later calls fail with [shared.ErrStorageClosed].
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
