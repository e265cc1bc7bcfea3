// Package storage implements the key-value port the record store persists through.
//
// A [KV] holds opaque byte values (JSON documents in practice) under string keys and supports
// get, set and delete. Backends that can write several keys all-or-nothing also implement [Batch];
// [WriteAll] uses it when present and falls back to sequential writes otherwise.
//
// Backends:
//   - [MemoryKV] : map-backed store guarded by a [sync.RWMutex], values copied on the way in and out
//   - [SQLiteKV] : single kv table in SQLite, batches run inside one database transaction
//
// [Open] picks the backend from [shared.DatabaseConfig]: the ":memory:" path selects [MemoryKV].
package storage
