package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/repositories"
	"github.com/desertthunder/libratech/internal/shared"
)

// ListBooks returns the catalog, seeding it on first access.
func (s *Store) ListBooks(ctx context.Context) ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repos.Books.Load(ctx)
}

// ListStudents returns the roster, seeding it on first access.
func (s *Store) ListStudents(ctx context.Context) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repos.Students.Load(ctx)
}

// AddBook adds an AVAILABLE book stamped with the current time, unless the ISBN is taken.
func (s *Store) AddBook(ctx context.Context, in models.BookInput) (models.Outcome, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Category = strings.TrimSpace(in.Category)
	if err := in.Validate(); err != nil {
		return models.Failed(shared.ErrInvalidInput, err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repos.Books.Load(ctx)
	if err != nil {
		return models.Outcome{}, err
	}

	for _, b := range books {
		if b.ISBN == in.ISBN {
			return models.Failed(shared.ErrDuplicateISBN, "A book with this ISBN already exists."), nil
		}
	}

	book := models.Book{
		ID:        shared.GenerateID(),
		Title:     in.Title,
		Author:    in.Author,
		ISBN:      in.ISBN,
		Status:    models.StatusAvailable,
		Category:  in.Category,
		AddedDate: s.now(),
	}
	if err := book.Validate(); err != nil {
		return models.Failed(shared.ErrInvalidInput, err.Error()), nil
	}
	books = append(books, book)

	if err := s.repos.Books.Save(ctx, books); err != nil {
		return models.Outcome{}, err
	}

	s.logger.Info("book added", "id", book.ID, "isbn", book.ISBN, "title", book.Title)
	return models.Succeeded("Book added successfully."), nil
}

// AddStudent registers a student with an empty reading history, unless the number is taken.
func (s *Store) AddStudent(ctx context.Context, in models.StudentInput) (models.Outcome, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.StudentNumber = strings.TrimSpace(in.StudentNumber)
	in.Email = strings.TrimSpace(in.Email)
	in.Grade = strings.TrimSpace(in.Grade)
	if err := in.Validate(); err != nil {
		return models.Failed(shared.ErrInvalidInput, err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.repos.Students.Load(ctx)
	if err != nil {
		return models.Outcome{}, err
	}

	for _, st := range students {
		if st.StudentNumber == in.StudentNumber {
			return models.Failed(shared.ErrDuplicateStudentNumber, "A student with this number is already registered."), nil
		}
	}

	student := models.Student{
		ID:             shared.GenerateID(),
		Name:           in.Name,
		StudentNumber:  in.StudentNumber,
		Email:          in.Email,
		Grade:          in.Grade,
		ReadingHistory: []string{},
	}
	if err := student.Validate(); err != nil {
		return models.Failed(shared.ErrInvalidInput, err.Error()), nil
	}
	students = append(students, student)

	if err := s.repos.Students.Save(ctx, students); err != nil {
		return models.Outcome{}, err
	}

	s.logger.Info("student added", "id", student.ID, "number", student.StudentNumber)
	return models.Succeeded("Student added successfully."), nil
}

// DeleteBook removes the book with id. A book on an open loan is not removed.
func (s *Store) DeleteBook(ctx context.Context, id string) (models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn, err := s.load(ctx)
	if err != nil {
		return models.Outcome{}, err
	}

	if repositories.IndexOf(sn.books, id) < 0 {
		return models.Failed(shared.ErrBookNotFound, "Book not found."), nil
	}
	if sn.openLoanFor(id) >= 0 {
		return models.Failed(shared.ErrActiveLoans, "Book is on loan; return it before deleting."), nil
	}

	books, _ := repositories.Remove(sn.books, id)
	if err := s.repos.Books.Save(ctx, books); err != nil {
		return models.Outcome{}, err
	}

	s.logger.Info("book deleted", "id", id)
	return models.Succeeded("Book deleted."), nil
}

// DeleteStudent removes the student with id. A student holding open loans is not removed.
func (s *Store) DeleteStudent(ctx context.Context, id string) (models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn, err := s.load(ctx)
	if err != nil {
		return models.Outcome{}, err
	}

	if repositories.IndexOf(sn.students, id) < 0 {
		return models.Failed(shared.ErrStudentNotFound, "Student not found."), nil
	}

	open := 0
	for _, tx := range sn.transactions {
		if tx.StudentID == id && tx.Open() {
			open++
		}
	}
	if open > 0 {
		return models.Failed(shared.ErrActiveLoans, fmt.Sprintf("Student has %d book(s) on loan; return them before deleting.", open)), nil
	}

	students, _ := repositories.Remove(sn.students, id)
	if err := s.repos.Students.Save(ctx, students); err != nil {
		return models.Outcome{}, err
	}

	s.logger.Info("student deleted", "id", id)
	return models.Succeeded("Student deleted."), nil
}

// FindBookByISBN returns the book with isbn or [shared.ErrBookNotFound].
func (s *Store) FindBookByISBN(ctx context.Context, isbn string) (models.Book, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return models.Book{}, err
	}
	isbn = strings.TrimSpace(isbn)
	for _, b := range books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return models.Book{}, fmt.Errorf("%w: %s", shared.ErrBookNotFound, isbn)
}

// FindStudentByNumber returns the student with number or [shared.ErrStudentNotFound].
func (s *Store) FindStudentByNumber(ctx context.Context, number string) (models.Student, error) {
	students, err := s.ListStudents(ctx)
	if err != nil {
		return models.Student{}, err
	}
	number = strings.TrimSpace(number)
	for _, st := range students {
		if st.StudentNumber == number {
			return st, nil
		}
	}
	return models.Student{}, fmt.Errorf("%w: %s", shared.ErrStudentNotFound, number)
}

// StudentHistory returns the books in a student's reading history, oldest first.
// Deleted books are skipped; repeats are kept.
func (s *Store) StudentHistory(ctx context.Context, number string) ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	i := sn.studentByNumber(strings.TrimSpace(number))
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrStudentNotFound, number)
	}

	history := []models.Book{}
	for _, id := range sn.students[i].ReadingHistory {
		if j := repositories.IndexOf(sn.books, id); j >= 0 {
			history = append(history, sn.books[j])
		}
	}
	return history, nil
}
