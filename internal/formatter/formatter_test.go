package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
	th "github.com/desertthunder/libratech/internal/testing"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleBooks() []models.Book {
	return []models.Book{
		{ID: "b1", Title: "1984", Author: "George Orwell", ISBN: "9780451524935", Status: models.StatusAvailable, Category: "Science Fiction", AddedDate: time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "b2", Title: "Pipes | Filters", Author: "Anon", ISBN: "123", Status: models.StatusBorrowed, Category: "Technology"},
	}
}

func sampleStudents() []models.Student {
	return []models.Student{
		{ID: "s1", Name: "Ayşe Demir", StudentNumber: "2024002", Email: "ayse@school.example", Grade: "11-B", ReadingHistory: []string{"b1", "b2"}},
		{ID: "s2", Name: "Mehmet Kaya", StudentNumber: "2024003", ReadingHistory: []string{}},
	}
}

func sampleLoans() []models.ActiveLoan {
	books, students := sampleBooks(), sampleStudents()
	return []models.ActiveLoan{{
		Transaction: models.Transaction{ID: "t1", BookID: "b2", StudentID: "s1", IssueDate: now.AddDate(0, 0, -20), DueDate: now.AddDate(0, 0, -5)},
		Book:        books[1],
		Student:     students[0],
	}}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"text", FormatText, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExporters(t *testing.T) {
	t.Run("BooksToCSV", func(t *testing.T) {
		data, err := BooksToCSV(sampleBooks())
		if err != nil {
			t.Fatalf("BooksToCSV failed: %v", err)
		}

		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Title,Author,ISBN,Category,Status,Added" {
			t.Errorf("unexpected headers: %v", records[0])
		}
		if records[1][6] != "2023-01-05" {
			t.Errorf("expected formatted added date, got %q", records[1][6])
		}
		if records[2][6] != "-" {
			t.Errorf("expected - for zero added date, got %q", records[2][6])
		}
	})

	t.Run("StudentsToCSV", func(t *testing.T) {
		data, err := StudentsToCSV(sampleStudents())
		if err != nil {
			t.Fatalf("StudentsToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "Ayşe Demir,2024002,ayse@school.example,11-B,2") {
			t.Errorf("CSV missing student row, got: %s", output)
		}
	})

	t.Run("LoansToCSV", func(t *testing.T) {
		data, err := LoansToCSV(sampleLoans(), now)
		if err != nil {
			t.Fatalf("LoansToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), ",-5\n") {
			t.Errorf("expected days remaining of -5, got: %s", data)
		}
	})

	t.Run("BooksToMarkdown", func(t *testing.T) {
		output := string(BooksToMarkdown(sampleBooks()))

		for _, want := range []string{"# Catalog", "**Books**: 2", "**Available**: 1", `Pipes \| Filters`, "| 1 | 1984 |"} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("StudentsToText", func(t *testing.T) {
		output := string(StudentsToText(sampleStudents()))
		if !strings.Contains(output, "1. Ayşe Demir (2024002) 11-B") {
			t.Errorf("unexpected text output:\n%s", output)
		}
	})

	t.Run("ExportBooks rejects unknown format", func(t *testing.T) {
		if _, err := ExportBooks(sampleBooks(), Format("pdf")); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestTables(t *testing.T) {
	t.Run("BooksTable hides ids", func(t *testing.T) {
		output := BooksTable(sampleBooks())
		if !strings.Contains(output, "George Orwell") || !strings.Contains(output, "BORROWED") {
			t.Errorf("table missing content:\n%s", output)
		}
		if strings.Contains(output, "b1") {
			t.Errorf("table should not show internal ids:\n%s", output)
		}
	})

	t.Run("LoansTable", func(t *testing.T) {
		output := LoansTable(sampleLoans(), now)
		if !strings.Contains(output, "Ayşe Demir") || !strings.Contains(output, "-5") {
			t.Errorf("table missing content:\n%s", output)
		}
	})

	t.Run("empty tables render headers", func(t *testing.T) {
		if output := StudentsTable(nil); !strings.Contains(output, "Student Number") {
			t.Errorf("expected headers, got:\n%s", output)
		}
	})
}

func TestCards(t *testing.T) {
	students := sampleStudents()

	t.Run("CardPayload is the student number", func(t *testing.T) {
		if got := CardPayload(students[0]); got != "2024002" {
			t.Errorf("expected 2024002, got %s", got)
		}
	})

	t.Run("LibraryCard", func(t *testing.T) {
		card := LibraryCard("Atatürk High", students[0])
		for _, want := range []string{"ATATÜRK HIGH", "Ayşe Demir", "No: 2024002", "Grade: 11-B", "QR: 2024002"} {
			if !strings.Contains(card, want) {
				t.Errorf("card missing %q:\n%s", want, card)
			}
		}
		if strings.Contains(LibraryCard("", students[1]), "Grade:") {
			t.Error("card should omit empty grade")
		}
	})

	t.Run("WriteCards", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteCards(&buf, "", students); err != nil {
			t.Fatalf("WriteCards failed: %v", err)
		}
		if strings.Count(buf.String(), "LIBRARY CARD") != 2 {
			t.Errorf("expected two cards, got:\n%s", buf.String())
		}
	})

	t.Run("WriteCards propagates writer errors", func(t *testing.T) {
		if err := WriteCards(&th.FWriter{}, "", students); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("WithDefaultPath", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Chdir(tempDir)

		data, err := ExportBooks(sampleBooks(), FormatCSV)
		if err != nil {
			t.Fatalf("ExportBooks failed: %v", err)
		}
		path, err := WriteExport(data, "", "books", FormatCSV)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "books.csv" {
			t.Errorf("expected books.csv, got %s", path)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WithNestedPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "students.md")
		data, err := ExportStudents(sampleStudents(), FormatMarkdown)
		if err != nil {
			t.Fatalf("ExportStudents failed: %v", err)
		}
		if _, err := WriteExport(data, path, "students", FormatMarkdown); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if content := th.MustReadFile(t, path); !strings.Contains(content, "# Students") {
			t.Errorf("unexpected file content:\n%s", content)
		}
	})
}
