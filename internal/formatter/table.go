package formatter

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/libratech/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

func render(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

// BooksTable renders books for the terminal, without the internal id column.
func BooksTable(books []models.Book) string {
	rows := bookRows(books)
	for i := range rows {
		rows[i] = rows[i][1:]
	}
	return render(BookHeaders[1:], rows)
}

// StudentsTable renders students for the terminal.
func StudentsTable(students []models.Student) string {
	rows := studentRows(students)
	for i := range rows {
		rows[i] = rows[i][1:]
	}
	return render(StudentHeaders[1:], rows)
}

// LoansTable renders active loans with days remaining relative to now.
func LoansTable(loans []models.ActiveLoan, now time.Time) string {
	rows := loanRows(loans, now)
	for i := range rows {
		rows[i] = rows[i][1:]
	}
	return render(loanHeaders[1:], rows)
}
