// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/libratech/internal/storage"
)

// ErrInjected is returned by [FaultyKV] for every write it is told to fail.
var ErrInjected = errors.New("injected storage failure")

// FaultyKV wraps a [storage.Store] and fails writes on demand.
//
// FailKeys fails any write touching one of the listed keys; FailAfter fails every write after that
// many successful ones (0 disables). Batches fail as a whole before anything reaches the wrapped store.
type FaultyKV struct {
	storage.Store

	mu        sync.Mutex
	FailKeys  map[string]bool
	FailAfter int
	FailReads bool
	writes    int
}

// NewFaultyKV wraps inner. Reads and writes pass through until configured otherwise.
func NewFaultyKV(inner storage.Store) *FaultyKV {
	return &FaultyKV{Store: inner, FailKeys: map[string]bool{}}
}

// FailOn marks key as failing for subsequent writes.
func (f *FaultyKV) FailOn(key string) *FaultyKV {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailKeys[key] = true
	return f
}

// Writes returns the number of successful writes seen.
func (f *FaultyKV) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *FaultyKV) check(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailAfter > 0 && f.writes >= f.FailAfter {
		return ErrInjected
	}
	for _, k := range keys {
		if f.FailKeys[k] {
			return ErrInjected
		}
	}
	f.writes++
	return nil
}

func (f *FaultyKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.FailReads
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.Store.Get(ctx, key)
}

func (f *FaultyKV) Set(ctx context.Context, key string, value []byte) error {
	if err := f.check(key); err != nil {
		return err
	}
	return f.Store.Set(ctx, key, value)
}

func (f *FaultyKV) Delete(ctx context.Context, key string) error {
	if err := f.check(key); err != nil {
		return err
	}
	return f.Store.Delete(ctx, key)
}

func (f *FaultyKV) SetMany(ctx context.Context, entries []storage.Entry) error {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	if err := f.check(keys...); err != nil {
		return err
	}
	return f.Store.SetMany(ctx, entries)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to path, failing the test on error.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
