// package formatter renders library records as CSV, Markdown, plain text, terminal tables and printable cards
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// ParseFormat accepts csv, md/markdown and txt/text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (want csv, md or txt)", shared.ErrInvalidFlag, s)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// BookHeaders is the column order shared by book exports and imports.
var BookHeaders = []string{"ID", "Title", "Author", "ISBN", "Category", "Status", "Added"}

// StudentHeaders is the column order shared by student exports and imports.
var StudentHeaders = []string{"ID", "Name", "Student Number", "Email", "Grade", "Books Read"}

var loanHeaders = []string{"Transaction", "Title", "ISBN", "Student", "Student Number", "Issued", "Due", "Days Left"}

func bookRows(books []models.Book) [][]string {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{b.ID, b.Title, b.Author, b.ISBN, b.Category, string(b.Status), shared.FormatDate(b.AddedDate)})
	}
	return rows
}

func studentRows(students []models.Student) [][]string {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{s.ID, s.Name, s.StudentNumber, s.Email, s.Grade, strconv.Itoa(len(s.ReadingHistory))})
	}
	return rows
}

func loanRows(loans []models.ActiveLoan, now time.Time) [][]string {
	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, []string{
			l.ID, l.Book.Title, l.Book.ISBN, l.Student.Name, l.Student.StudentNumber,
			shared.FormatDate(l.IssueDate), shared.FormatDate(l.DueDate), strconv.Itoa(l.DaysRemaining(now)),
		})
	}
	return rows
}

// BooksToCSV encodes books with [BookHeaders].
func BooksToCSV(books []models.Book) ([]byte, error) {
	return writeCSV(BookHeaders, bookRows(books))
}

// StudentsToCSV encodes students with [StudentHeaders].
func StudentsToCSV(students []models.Student) ([]byte, error) {
	return writeCSV(StudentHeaders, studentRows(students))
}

// LoansToCSV encodes active loans with days remaining relative to now.
func LoansToCSV(loans []models.ActiveLoan, now time.Time) ([]byte, error) {
	return writeCSV(loanHeaders, loanRows(loans, now))
}

// BooksToMarkdown renders the catalog as a numbered Markdown table with availability totals.
func BooksToMarkdown(books []models.Book) []byte {
	var buf bytes.Buffer

	available := 0
	for _, b := range books {
		if b.Available() {
			available++
		}
	}

	buf.WriteString("# Catalog\n\n")
	buf.WriteString(fmt.Sprintf("**Books**: %d\n", len(books)))
	buf.WriteString(fmt.Sprintf("**Available**: %d\n\n", available))

	buf.WriteString("| # | Title | Author | ISBN | Category | Status |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")
	for i, b := range books {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n", i+1, mdEscape(b.Title), mdEscape(b.Author), b.ISBN, mdEscape(b.Category), b.Status))
	}
	return buf.Bytes()
}

// StudentsToMarkdown renders the roster as a Markdown table.
func StudentsToMarkdown(students []models.Student) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Students\n\n")
	buf.WriteString(fmt.Sprintf("**Students**: %d\n\n", len(students)))
	buf.WriteString("| # | Name | Number | Grade | Books Read |\n")
	buf.WriteString("|---|---|---|---|---|\n")
	for i, s := range students {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d |\n", i+1, mdEscape(s.Name), s.StudentNumber, mdEscape(s.Grade), len(s.ReadingHistory)))
	}
	return buf.Bytes()
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// BooksToText renders one numbered line per book.
func BooksToText(books []models.Book) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Books: %d\n\n", len(books)))
	for i, b := range books {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s] %s\n", i+1, b.Author, b.Title, b.ISBN, b.Status))
	}
	return buf.Bytes()
}

// StudentsToText renders one numbered line per student.
func StudentsToText(students []models.Student) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Students: %d\n\n", len(students)))
	for i, s := range students {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) %s\n", i+1, s.Name, s.StudentNumber, s.Grade))
	}
	return buf.Bytes()
}

// ExportBooks encodes books in format.
func ExportBooks(books []models.Book, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return BooksToCSV(books)
	case FormatMarkdown:
		return BooksToMarkdown(books), nil
	case FormatText:
		return BooksToText(books), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
}

// ExportStudents encodes students in format.
func ExportStudents(students []models.Student, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return StudentsToCSV(students)
	case FormatMarkdown:
		return StudentsToMarkdown(students), nil
	case FormatText:
		return StudentsToText(students), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
}

// WriteExport writes data to path, creating parent directories.
//
// An empty path defaults to {base}.{format} in the working directory.
func WriteExport(data []byte, path, base string, format Format) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.%s", base, format)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
