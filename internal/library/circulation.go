package library

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
)

// IssueBook lends the book with isbn to the student with studentNumber for days days.
// A non-positive days uses the store's default loan length.
//
// Checks run in order: book exists, student exists, book is AVAILABLE. A student re-reading a
// book gets a warning but the loan still goes through.
func (s *Store) IssueBook(ctx context.Context, isbn, studentNumber string, days int) (models.Outcome, error) {
	if days <= 0 {
		days = s.loanDays
	}
	if days > MaxLoanDays {
		return models.Failed(shared.ErrInvalidInput, fmt.Sprintf("Loan length must be at most %d days.", MaxLoanDays)), nil
	}
	isbn = strings.TrimSpace(isbn)
	studentNumber = strings.TrimSpace(studentNumber)

	s.mu.Lock()
	defer s.mu.Unlock()

	sn, err := s.load(ctx)
	if err != nil {
		return models.Outcome{}, err
	}

	bi := sn.bookByISBN(isbn)
	if bi < 0 {
		return models.Failed(shared.ErrBookNotFound, "No book found with this ISBN/QR code."), nil
	}
	si := sn.studentByNumber(studentNumber)
	if si < 0 {
		return models.Failed(shared.ErrStudentNotFound, "No student found with this number/QR code."), nil
	}

	book := sn.books[bi]
	student := sn.students[si]
	if !book.Available() {
		return models.Failed(shared.ErrBookOnLoan, "Book is currently on loan to someone else."), nil
	}

	var warning string
	if student.HasRead(book.ID) {
		warning = fmt.Sprintf("Warning! %s has read \"%s\" before.", student.Name, book.Title)
	}

	now := s.now()
	tx := models.Transaction{
		ID:        shared.GenerateID(),
		BookID:    book.ID,
		StudentID: student.ID,
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, days),
	}
	if err := tx.Validate(); err != nil {
		return models.Failed(shared.ErrInvalidInput, err.Error()), nil
	}

	books := slices.Clone(sn.books)
	books[bi].Status = models.StatusBorrowed

	students := slices.Clone(sn.students)
	students[si].ReadingHistory = append(slices.Clone(student.ReadingHistory), book.ID)

	transactions := append(slices.Clone(sn.transactions), tx)

	if err := s.write(ctx,
		s.encodeBooks(books),
		s.encodeStudents(students),
		s.encodeTransactions(transactions),
	); err != nil {
		return models.Outcome{}, err
	}

	s.logger.Info("book issued",
		"transaction", tx.ID, "isbn", book.ISBN, "student", student.StudentNumber,
		"due", shared.FormatDate(tx.DueDate), "reread", warning != "")

	out := models.Succeeded("Book issued successfully.")
	if warning != "" {
		out = out.WithWarning(warning)
	}
	return out, nil
}

// ReturnBook closes the open loan for the book with isbn and makes the book AVAILABLE.
func (s *Store) ReturnBook(ctx context.Context, isbn string) (models.Outcome, error) {
	isbn = strings.TrimSpace(isbn)

	s.mu.Lock()
	defer s.mu.Unlock()

	sn, err := s.load(ctx)
	if err != nil {
		return models.Outcome{}, err
	}

	bi := sn.bookByISBN(isbn)
	if bi < 0 {
		return models.Failed(shared.ErrBookNotFound, "Book not found."), nil
	}
	book := sn.books[bi]

	ti := sn.openLoanFor(book.ID)
	if ti < 0 {
		return models.Failed(shared.ErrNotOnLoan, "This book does not appear to be on loan."), nil
	}

	now := s.now()
	transactions := slices.Clone(sn.transactions)
	transactions[ti].IsReturned = true
	transactions[ti].ReturnDate = &now

	books := slices.Clone(sn.books)
	books[bi].Status = models.StatusAvailable

	if err := s.write(ctx, s.encodeTransactions(transactions), s.encodeBooks(books)); err != nil {
		return models.Outcome{}, err
	}

	s.logger.Info("book returned", "transaction", transactions[ti].ID, "isbn", book.ISBN,
		"late", transactions[ti].DueDate.Before(now))
	return models.Succeeded("Book returned to inventory successfully."), nil
}

// ListActiveLoans returns open loans joined with their book and student.
// Loans whose book or student no longer exists are omitted.
func (s *Store) ListActiveLoans(ctx context.Context) ([]models.ActiveLoan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return sn.activeLoans(), nil
}

// ListOverdueLoans returns the active loans past their due date, most overdue first.
func (s *Store) ListOverdueLoans(ctx context.Context) ([]models.ActiveLoan, error) {
	loans, err := s.ListActiveLoans(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	overdue := []models.ActiveLoan{}
	for _, l := range loans {
		if l.Overdue(now) {
			overdue = append(overdue, l)
		}
	}
	slices.SortFunc(overdue, func(a, b models.ActiveLoan) int { return a.DueDate.Compare(b.DueDate) })
	return overdue, nil
}
