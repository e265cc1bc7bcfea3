// Package tasks runs bulk operations against the library store with real-time progress reporting.
//
// # Core Operations
//
// [ImportEngine] loads CSV files into the catalog and roster:
//
//  1. [ImportEngine.ImportBooks] : one book per row (title, author, isbn, category)
//     - Header names are matched case-insensitively; extra columns are ignored
//     - Exported catalogs (see formatter.BookHeaders) import unchanged
//     - Duplicate ISBNs are skipped, never fatal
//
//  2. [ImportEngine.ImportStudents] : one student per row (name, student number, email, grade)
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Pacing
//
// [ImportOpts.RateLimit] throttles inserts with a token bucket so a large import does not starve an
// HTTP server sharing the same store.
package tasks
