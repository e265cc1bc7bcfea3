package library

import (
	"context"
	"strings"
	"unicode"

	"github.com/desertthunder/libratech/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var dotless = strings.NewReplacer("ı", "i", "İ", "i")

// fold lowercases s and strips combining marks so "ayse" matches "Ayşe" and "kurk" matches "Kürk".
// Caser and transformer are stateful, so each call builds its own.
func fold(s string) string {
	s = dotless.Replace(s)
	s = cases.Fold().String(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func matches(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(fold(f), query) {
			return true
		}
	}
	return false
}

// FilterBooks returns the books whose title, author, ISBN or category contains query.
// Matching ignores case and diacritics. An empty query returns books unchanged.
func FilterBooks(books []models.Book, query string) []models.Book {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return books
	}

	out := []models.Book{}
	for _, b := range books {
		if matches(q, b.Title, b.Author, b.ISBN, b.Category) {
			out = append(out, b)
		}
	}
	return out
}

// FilterStudents returns the students whose name, number or grade contains query.
func FilterStudents(students []models.Student, query string) []models.Student {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return students
	}

	out := []models.Student{}
	for _, st := range students {
		if matches(q, st.Name, st.StudentNumber, st.Grade) {
			out = append(out, st)
		}
	}
	return out
}

// SearchBooks filters the stored catalog by query.
func (s *Store) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	return FilterBooks(books, query), nil
}

// SearchStudents filters the stored roster by query.
func (s *Store) SearchStudents(ctx context.Context, query string) ([]models.Student, error) {
	students, err := s.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	return FilterStudents(students, query), nil
}
