// package models defines the data model for the library record store
package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/libratech/internal/shared"
)

// Model defines the base interface for all persisted records.
type Model interface {
	RecordID() string // RecordID returns the unique identifier for this record
	Validate() error  // Validate checks if the record's data is valid and returns an error if not
}

// BookStatus is the circulation state of a [Book].
type BookStatus string

const (
	StatusAvailable BookStatus = "AVAILABLE"
	StatusBorrowed  BookStatus = "BORROWED"
)

// Book is a catalog entry.
//
// Status is BORROWED iff exactly one open [Transaction] references the book.
type Book struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	ISBN      string     `json:"isbn"`
	Status    BookStatus `json:"status"`
	Category  string     `json:"category"`
	AddedDate time.Time  `json:"addedDate"`
}

func (b Book) RecordID() string { return b.ID }

func (b Book) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: book id is required", shared.ErrInvalidInput)
	}
	if b.Status != StatusAvailable && b.Status != StatusBorrowed {
		return fmt.Errorf("%w: unknown book status %q", shared.ErrInvalidInput, b.Status)
	}
	return BookInput{Title: b.Title, Author: b.Author, ISBN: b.ISBN}.Validate()
}

// Available reports whether the book can be issued.
func (b Book) Available() bool { return b.Status == StatusAvailable }

// Student is a roster entry.
type Student struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	StudentNumber  string   `json:"studentNumber"`
	Email          string   `json:"email"`
	Grade          string   `json:"grade"`
	ReadingHistory []string `json:"readingHistory"` // ReadingHistory holds book ids in borrow order, repeats allowed
}

func (s Student) RecordID() string { return s.ID }

func (s Student) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: student id is required", shared.ErrInvalidInput)
	}
	return StudentInput{Name: s.Name, StudentNumber: s.StudentNumber}.Validate()
}

// HasRead reports whether bookID appears in the reading history.
func (s Student) HasRead(bookID string) bool {
	return slices.Contains(s.ReadingHistory, bookID)
}

// Transaction is a loan record. It is open until IsReturned is set.
type Transaction struct {
	ID         string     `json:"id"`
	BookID     string     `json:"bookId"`
	StudentID  string     `json:"studentId"`
	IssueDate  time.Time  `json:"issueDate"`
	DueDate    time.Time  `json:"dueDate"`
	IsReturned bool       `json:"isReturned"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
}

func (t Transaction) RecordID() string { return t.ID }

func (t Transaction) Validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("%w: transaction id is required", shared.ErrInvalidInput)
	case t.BookID == "" || t.StudentID == "":
		return fmt.Errorf("%w: transaction must reference a book and a student", shared.ErrInvalidInput)
	case t.DueDate.Before(t.IssueDate):
		return fmt.Errorf("%w: due date precedes issue date", shared.ErrInvalidInput)
	case t.IsReturned && t.ReturnDate == nil:
		return fmt.Errorf("%w: returned transaction has no return date", shared.ErrInvalidInput)
	}
	return nil
}

// Open reports whether the loan is still outstanding.
func (t Transaction) Open() bool { return !t.IsReturned }

// Overdue reports whether an open loan is past its due date at now.
func (t Transaction) Overdue(now time.Time) bool {
	return t.Open() && now.After(t.DueDate)
}

// DaysRemaining returns whole days until the due date; negative when overdue.
func (t Transaction) DaysRemaining(now time.Time) int {
	d := t.DueDate.Sub(now)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// ActiveLoan is an open [Transaction] joined with the records it references.
//
// The transaction fields are flattened in JSON alongside "book" and "student".
type ActiveLoan struct {
	Transaction
	Book    Book    `json:"book"`
	Student Student `json:"student"`
}

// BookInput holds the caller-supplied fields for a new [Book].
type BookInput struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	Category string `json:"category"`
}

func (in BookInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ISBN) == "" {
		return fmt.Errorf("%w: isbn is required", shared.ErrInvalidInput)
	}
	return nil
}

// StudentInput holds the caller-supplied fields for a new [Student].
type StudentInput struct {
	Name          string `json:"name"`
	StudentNumber string `json:"studentNumber"`
	Email         string `json:"email"`
	Grade         string `json:"grade"`
}

func (in StudentInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(in.StudentNumber) == "" {
		return fmt.Errorf("%w: student number is required", shared.ErrInvalidInput)
	}
	return nil
}
