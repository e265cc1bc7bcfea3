package repositories

import (
	"time"

	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
)

// Seed identifiers referenced by tests and the demo.
const (
	SeedOrwellISBN     = "9780451524935"
	SeedCleanCodeISBN  = "9780132350884"
	SeedMadonnaISBN    = "9789753638029"
	SeedFirstStudentNo = "2024001"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedBooks returns the demo catalog. b1 and b3 are on loan in [SeedTransactions].
func SeedBooks() []models.Book {
	return []models.Book{
		{ID: "b1", Title: "Kürk Mantolu Madonna", Author: "Sabahattin Ali", ISBN: SeedMadonnaISBN, Status: models.StatusBorrowed, Category: "Literature", AddedDate: date(2023, 1, 1)},
		{ID: "b2", Title: "1984", Author: "George Orwell", ISBN: SeedOrwellISBN, Status: models.StatusAvailable, Category: "Science Fiction", AddedDate: date(2023, 1, 5)},
		{ID: "b3", Title: "Calculus, Vol. 1", Author: "Tom M. Apostol", ISBN: "9780471000051", Status: models.StatusBorrowed, Category: "Education", AddedDate: date(2023, 2, 10)},
		{ID: "b4", Title: "Clean Code", Author: "Robert C. Martin", ISBN: SeedCleanCodeISBN, Status: models.StatusAvailable, Category: "Technology", AddedDate: date(2023, 3, 20)},
	}
}

// SeedStudents returns the demo roster. s2 has already read b2.
func SeedStudents() []models.Student {
	return []models.Student{
		{ID: "s1", Name: "Ali Yılmaz", StudentNumber: SeedFirstStudentNo, Email: "ali@school.example", Grade: "10-A", ReadingHistory: []string{}},
		{ID: "s2", Name: "Ayşe Demir", StudentNumber: "2024002", Email: "ayse@school.example", Grade: "11-B", ReadingHistory: []string{"b2"}},
		{ID: "s3", Name: "Mehmet Kaya", StudentNumber: "2024003", Email: "mehmet@school.example", Grade: "9-C", ReadingHistory: []string{}},
	}
}

// SeedTransactions returns two open loans relative to now: t1 is five days overdue, t2 is due in 14 days.
func SeedTransactions(now time.Time) []models.Transaction {
	return []models.Transaction{
		{ID: "t1", BookID: "b1", StudentID: "s1", IssueDate: now.Add(-shared.Days(20)), DueDate: now.Add(-shared.Days(5))},
		{ID: "t2", BookID: "b3", StudentID: "s3", IssueDate: now, DueDate: now.Add(shared.Days(14))},
	}
}
