package storage

import (
	"context"
	"fmt"

	"github.com/desertthunder/libratech/internal/shared"
)

// KV is the get/set/delete-by-key persistence primitive.
//
// Get returns [shared.ErrKeyNotFound] when the key has never been written or was deleted.
// Delete of a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Entry is one key/value pair in a batch write.
type Entry struct {
	Key   string
	Value []byte
}

// Batch is implemented by backends that can apply several writes atomically.
type Batch interface {
	SetMany(ctx context.Context, entries []Entry) error
}

// Store is a closable [KV] with batch support, as returned by [Open].
type Store interface {
	KV
	Batch
	Close() error
}

// WriteAll persists entries in order, atomically when kv implements [Batch].
func WriteAll(ctx context.Context, kv KV, entries []Entry) error {
	if b, ok := kv.(Batch); ok {
		return b.SetMany(ctx, entries)
	}
	for _, e := range entries {
		if err := kv.Set(ctx, e.Key, e.Value); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.Key, err)
		}
	}
	return nil
}

// Open returns the backend selected by cfg, running migrations for SQLite.
func Open(cfg shared.DatabaseConfig) (Store, error) {
	if cfg.Path == shared.MemoryDSN {
		return NewMemoryKV(), nil
	}

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewSQLiteKV(db), nil
}
