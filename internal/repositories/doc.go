// Package repositories maps the library's collections onto the key-value port.
//
// Each collection is a JSON array stored under a single key and always read and written whole.
// A [Collection] that has never been written is seeded on first load when a seed function is set,
// and the seed is persisted immediately so later loads see the same ids and dates.
//
// Key Implementations:
//   - [Collection] : Generic typed JSON array under one key (books, students, transactions)
//   - [Document] : Single JSON object under one key (the current session)
//   - [Repositories] : The bundle the record store is built from, with [BooksKey], [StudentsKey] and [TransactionsKey]
//
// Values are encoded with json-iterator in standard-library-compatible mode, so field names follow the
// json struct tags in package models.
package repositories
