// package repositories provides persistence for the library collections over a key-value store.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/desertthunder/libratech/internal/storage"
	jsoniter "github.com/json-iterator/go"
)

// Storage keys, one per collection.
const (
	BooksKey        = "libratech_books"
	StudentsKey     = "libratech_students"
	TransactionsKey = "libratech_transactions"
	SessionKey      = "libratech_session"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Collection is a typed JSON array stored under one key.
type Collection[T models.Model] struct {
	kv   storage.KV
	key  string
	seed func() []T
}

// NewCollection creates a [Collection]. seed may be nil, in which case a missing key loads as empty.
func NewCollection[T models.Model](kv storage.KV, key string, seed func() []T) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, seed: seed}
}

// Key returns the storage key.
func (c *Collection[T]) Key() string { return c.key }

// Load returns every item, seeding and persisting the defaults when the key is absent.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, shared.ErrKeyNotFound) {
		if c.seed == nil {
			return []T{}, nil
		}
		items := c.seed()
		if err := c.Save(ctx, items); err != nil {
			return nil, fmt.Errorf("failed to persist seed for %s: %w", c.key, err)
		}
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.key, err)
	}

	var items []T
	if err := codec.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCorruptCollection, c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Encode serializes items into a batch entry without writing it.
func (c *Collection[T]) Encode(items []T) (storage.Entry, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := codec.Marshal(items)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	return storage.Entry{Key: c.key, Value: raw}, nil
}

// Save replaces the stored collection with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	entry, err := c.Encode(items)
	if err != nil {
		return err
	}
	if err := c.kv.Set(ctx, entry.Key, entry.Value); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.key, err)
	}
	return nil
}

// Clear deletes the key so the next [Collection.Load] reseeds.
func (c *Collection[T]) Clear(ctx context.Context) error {
	if err := c.kv.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", c.key, err)
	}
	return nil
}

// IndexOf returns the position of the item with id, or -1.
func IndexOf[T models.Model](items []T, id string) int {
	for i, item := range items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

// Remove returns items without the record identified by id and whether one was removed.
func Remove[T models.Model](items []T, id string) ([]T, bool) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.RecordID() != id {
			out = append(out, item)
		}
	}
	return out, len(out) != len(items)
}

// Repositories bundles the three library collections and the session document.
type Repositories struct {
	KV           storage.KV
	Books        *Collection[models.Book]
	Students     *Collection[models.Student]
	Transactions *Collection[models.Transaction]
	Session      *Document[models.Session]
}

// New builds [Repositories] over kv. When seed is true, missing collections load the demo data
// with dates relative to now().
func New(kv storage.KV, seed bool, now func() time.Time) *Repositories {
	if now == nil {
		now = time.Now
	}

	var (
		books        func() []models.Book
		students     func() []models.Student
		transactions func() []models.Transaction
	)
	if seed {
		books = func() []models.Book { return SeedBooks() }
		students = func() []models.Student { return SeedStudents() }
		transactions = func() []models.Transaction { return SeedTransactions(now()) }
	}

	return &Repositories{
		KV:           kv,
		Books:        NewCollection(kv, BooksKey, books),
		Students:     NewCollection(kv, StudentsKey, students),
		Transactions: NewCollection(kv, TransactionsKey, transactions),
		Session:      NewDocument[models.Session](kv, SessionKey),
	}
}

// Document is a single JSON object stored under one key.
type Document[T any] struct {
	kv  storage.KV
	key string
}

// NewDocument creates a [Document].
func NewDocument[T any](kv storage.KV, key string) *Document[T] {
	return &Document[T]{kv: kv, key: key}
}

// Load returns the stored value; ok is false when the key is absent.
func (d *Document[T]) Load(ctx context.Context) (value T, ok bool, err error) {
	raw, err := d.kv.Get(ctx, d.key)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("failed to load %s: %w", d.key, err)
	}
	if err := codec.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("%w: %s: %v", shared.ErrCorruptCollection, d.key, err)
	}
	return value, true, nil
}

// Save stores value.
func (d *Document[T]) Save(ctx context.Context, value T) error {
	raw, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.key, err)
	}
	if err := d.kv.Set(ctx, d.key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", d.key, err)
	}
	return nil
}

// Clear deletes the stored value.
func (d *Document[T]) Clear(ctx context.Context) error {
	if err := d.kv.Delete(ctx, d.key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", d.key, err)
	}
	return nil
}
