// Package models defines the library's domain entities and the outcome type returned by mutations.
//
// The package contains three categories of types:
//
// 1. Persisted entities, stored as JSON arrays under one key per collection:
//   - [Book] : Catalog entry with AVAILABLE/BORROWED status, unique ISBN
//   - [Student] : Roster entry with unique student number and append-only reading history
//   - [Transaction] : Loan record linking a book to a student, open until returned
//
// 2. Inputs and views:
//   - [BookInput], [StudentInput] : Fields accepted by add operations
//   - [ActiveLoan] : Open transaction joined with its book and student
//   - [Session] : The signed-in operator
//
// 3. [Outcome] : success flag, message and optional warning for mutating calls, carrying a
// sentinel reason from package shared on failure.
//
// All persisted entities implement the [Model] interface used by the generic collection repository.
package models
