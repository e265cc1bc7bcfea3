package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/repositories"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/desertthunder/libratech/internal/storage"
)

// DefaultLoanDays is used when neither the caller nor [Options] give a duration.
const DefaultLoanDays = 14

// MaxLoanDays bounds the loan length accepted by [Store.IssueBook].
const MaxLoanDays = 3650

// Options configures a [Store].
type Options struct {
	KV       storage.KV       // KV is the persistence port (required)
	Seed     bool             // Seed loads demo data into collections that were never written
	LoanDays int              // LoanDays is the default issue duration
	Logger   *log.Logger      // Logger defaults to [shared.NewLogger]
	Clock    func() time.Time // Clock defaults to [time.Now]
}

// Store is the library record store.
type Store struct {
	mu       sync.Mutex
	repos    *repositories.Repositories
	logger   *log.Logger
	now      func() time.Time
	loanDays int
}

// NewStore creates a [Store] over opts.KV.
func NewStore(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.LoanDays <= 0 {
		opts.LoanDays = DefaultLoanDays
	}

	return &Store{
		repos:    repositories.New(opts.KV, opts.Seed, opts.Clock),
		logger:   opts.Logger,
		now:      opts.Clock,
		loanDays: opts.LoanDays,
	}
}

// LoanDays returns the default issue duration.
func (s *Store) LoanDays() int { return s.loanDays }

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.now() }

// SetLogger replaces the store logger.
func (s *Store) SetLogger(l *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// snapshot holds one consistent read of all three collections.
type snapshot struct {
	books        []models.Book
	students     []models.Student
	transactions []models.Transaction
}

func (s *Store) load(ctx context.Context) (*snapshot, error) {
	books, err := s.repos.Books.Load(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.repos.Students.Load(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.repos.Transactions.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot{books: books, students: students, transactions: transactions}, nil
}

func (sn *snapshot) bookByISBN(isbn string) int {
	for i, b := range sn.books {
		if b.ISBN == isbn {
			return i
		}
	}
	return -1
}

func (sn *snapshot) studentByNumber(number string) int {
	for i, st := range sn.students {
		if st.StudentNumber == number {
			return i
		}
	}
	return -1
}

// openLoanFor returns the index of the open transaction for bookID, or -1.
func (sn *snapshot) openLoanFor(bookID string) int {
	for i, tx := range sn.transactions {
		if tx.BookID == bookID && tx.Open() {
			return i
		}
	}
	return -1
}

// activeLoans joins open transactions with their book and student, dropping orphans.
func (sn *snapshot) activeLoans() []models.ActiveLoan {
	books := make(map[string]models.Book, len(sn.books))
	for _, b := range sn.books {
		books[b.ID] = b
	}
	students := make(map[string]models.Student, len(sn.students))
	for _, st := range sn.students {
		students[st.ID] = st
	}

	loans := []models.ActiveLoan{}
	for _, tx := range sn.transactions {
		if !tx.Open() {
			continue
		}
		book, okBook := books[tx.BookID]
		student, okStudent := students[tx.StudentID]
		if !okBook || !okStudent {
			continue
		}
		loans = append(loans, models.ActiveLoan{Transaction: tx, Book: book, Student: student})
	}
	return loans
}

// write persists entries for the given collections in one batch.
func (s *Store) write(ctx context.Context, encoders ...func() (storage.Entry, error)) error {
	entries := make([]storage.Entry, 0, len(encoders))
	for _, enc := range encoders {
		e, err := enc()
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	if err := storage.WriteAll(ctx, s.repos.KV, entries); err != nil {
		return fmt.Errorf("failed to persist changes: %w", err)
	}
	return nil
}

func (s *Store) encodeBooks(books []models.Book) func() (storage.Entry, error) {
	return func() (storage.Entry, error) { return s.repos.Books.Encode(books) }
}

func (s *Store) encodeStudents(students []models.Student) func() (storage.Entry, error) {
	return func() (storage.Entry, error) { return s.repos.Students.Encode(students) }
}

func (s *Store) encodeTransactions(txs []models.Transaction) func() (storage.Entry, error) {
	return func() (storage.Entry, error) { return s.repos.Transactions.Encode(txs) }
}

// ResetAll clears all three collections and the session; the next access reseeds.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, clearFn := range []func(context.Context) error{
		s.repos.Books.Clear, s.repos.Students.Clear, s.repos.Transactions.Clear, s.repos.Session.Clear,
	} {
		if err := clearFn(ctx); err != nil {
			return err
		}
	}
	s.logger.Warn("library data reset")
	return nil
}
