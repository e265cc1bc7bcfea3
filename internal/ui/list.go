package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
)

var (
	_ list.Item = bookItem{}
	_ list.Item = studentItem{}
	_ list.Item = loanItem{}
)

// bookItem wraps [models.Book] to implement [list.Item].
type bookItem struct {
	book models.Book
}

func (i bookItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s %s", i.book.Title, i.book.Author, i.book.ISBN, i.book.Category)
}
func (i bookItem) Title() string { return i.book.Title }
func (i bookItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.book.Author, i.book.ISBN)
	if i.book.Category != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.book.Category)
	}
	if !i.book.Available() {
		desc = fmt.Sprintf("%s • %s", desc, styles.warn.Render("on loan"))
	}
	return desc
}

// studentItem wraps [models.Student] to implement [list.Item].
type studentItem struct {
	student models.Student
}

func (i studentItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s", i.student.Name, i.student.StudentNumber, i.student.Grade)
}
func (i studentItem) Title() string { return i.student.Name }
func (i studentItem) Description() string {
	desc := fmt.Sprintf("No %s • %d books read", i.student.StudentNumber, len(i.student.ReadingHistory))
	if i.student.Grade != "" {
		desc = fmt.Sprintf("%s • %s", i.student.Grade, desc)
	}
	return desc
}

// loanItem wraps [models.ActiveLoan] to implement [list.Item].
type loanItem struct {
	loan models.ActiveLoan
	now  time.Time
}

func (i loanItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s %s", i.loan.Book.Title, i.loan.Book.ISBN, i.loan.Student.Name, i.loan.Student.StudentNumber)
}
func (i loanItem) Title() string { return i.loan.Book.Title }
func (i loanItem) Description() string {
	desc := fmt.Sprintf("%s (%s) • due %s", i.loan.Student.Name, i.loan.Student.StudentNumber, shared.FormatDate(i.loan.DueDate))
	if i.loan.Overdue(i.now) {
		return fmt.Sprintf("%s • %s", desc, styles.err.Render(fmt.Sprintf("%d days overdue", -i.loan.DaysRemaining(i.now))))
	}
	return fmt.Sprintf("%s • %d days left", desc, i.loan.DaysRemaining(i.now))
}
