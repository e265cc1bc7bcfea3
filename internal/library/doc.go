// Package library implements the record store: catalog and roster maintenance plus the
// issue/return protocol that keeps book status and reading history consistent with the loan ledger.
//
// # Operations
//
// [Store] exposes list, add and delete over books and students, [Store.ListActiveLoans],
// [Store.IssueBook], [Store.ReturnBook] and [Store.ResetAll]. Mutations return a [models.Outcome];
// a failed outcome carries a sentinel reason from package shared (duplicate ISBN, student not found,
// book on loan, ...). A non-nil error means storage failed.
//
// # Consistency
//
// Every call is a read-modify-write over whole collections. The store serializes calls with a mutex,
// and issue/return write all touched collections through [storage.WriteAll], which is atomic on both
// shipped backends.
//
// Deletes refuse records that are referenced by an open loan. Closed loans may still point at
// deleted records, so every read that joins collections drops orphans.
package library
