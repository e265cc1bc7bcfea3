package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/libratech/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BooksView ViewState = iota
	StudentsView
	LoansView
	ConfirmView
)

var tabNames = []string{"Books", "Students", "Loans"}

// Library is the store surface the TUI reads and mutates.
type Library interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListActiveLoans(ctx context.Context) ([]models.ActiveLoan, error)
	ReturnBook(ctx context.Context, isbn string) (models.Outcome, error)
	Now() time.Time
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	lib          Library
	view         ViewState
	width        int
	height       int
	bookList     list.Model
	studentList  list.Model
	loanList     list.Model
	selectedLoan *models.ActiveLoan
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over lib.
func NewModel(ctx context.Context, lib Library) *Model {
	m := &Model{
		ctx:  ctx,
		lib:  lib,
		view: BooksView,
		help: help.New(),
		keys: newKeyMap(),
	}
	m.bookList = newList("Books")
	m.studentList = newList("Students")
	m.loanList = newList("Active Loans")
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// Init initializes the TUI by loading all three collections.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.bookList, &m.studentList, &m.loanList} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == ConfirmView {
			return m.handleConfirmKeys(msg)
		}
		return m.handleListKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgDataLoaded:
			data := msg.data.(loadedData)
			if data.err != nil {
				m.err = data.err
				return m, nil
			}
			m.err = nil
			m.setItems(data)
			return m, nil
		case MsgReturnDone:
			res := msg.data.(returnResult)
			m.selectedLoan = nil
			m.view = LoansView
			if res.err != nil {
				m.err = res.err
				return m, nil
			}
			if res.outcome.Success {
				m.status = styles.ok.Render("✓ " + res.outcome.Message)
			} else {
				m.status = styles.err.Render("✗ " + res.outcome.Message)
			}
			return m, m.load()
		}
	}

	return m.updateList(msg)
}

func (m *Model) setItems(data loadedData) {
	books := make([]list.Item, len(data.books))
	for i, b := range data.books {
		books[i] = bookItem{book: b}
	}
	students := make([]list.Item, len(data.students))
	for i, s := range data.students {
		students[i] = studentItem{student: s}
	}
	now := m.lib.Now()
	loans := make([]list.Item, len(data.loans))
	for i, l := range data.loans {
		loans[i] = loanItem{loan: l, now: now}
	}

	m.bookList.SetItems(books)
	m.studentList.SetItems(students)
	m.loanList.SetItems(loans)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.view == ConfirmView {
		return m.renderConfirm()
	}

	helpKeys := []key.Binding{m.keys.next, m.keys.refresh, m.keys.quit}
	if m.view == LoansView {
		helpKeys = append([]key.Binding{m.keys.enter}, helpKeys...)
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.current().View())
	if m.status != "" {
		b.WriteString("\n" + m.status)
	}
	b.WriteString("\n\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) current() *list.Model {
	switch m.view {
	case StudentsView:
		return &m.studentList
	case LoansView, ConfirmView:
		return &m.loanList
	default:
		return &m.bookList
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.current().FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.view = (m.view + 1) % ViewState(len(tabNames))
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.view = (m.view + ViewState(len(tabNames)) - 1) % ViewState(len(tabNames))
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.err = nil
		return m, m.load()
	case key.Matches(msg, m.keys.enter) && m.view == LoansView:
		if item, ok := m.loanList.SelectedItem().(loanItem); ok {
			loan := item.loan
			m.selectedLoan = &loan
			m.view = ConfirmView
		}
		return m, nil
	}

	return m.updateList(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.returnBook(m.selectedLoan.Book.ISBN)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.selectedLoan = nil
		m.view = LoansView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view == ConfirmView {
		return m, nil
	}
	l := m.current()
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		books, err := m.lib.ListBooks(m.ctx)
		if err != nil {
			return dataLoadedMsg(nil, nil, nil, err)
		}
		students, err := m.lib.ListStudents(m.ctx)
		if err != nil {
			return dataLoadedMsg(nil, nil, nil, err)
		}
		loans, err := m.lib.ListActiveLoans(m.ctx)
		return dataLoadedMsg(books, students, loans, err)
	}
}

func (m *Model) returnBook(isbn string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.lib.ReturnBook(m.ctx, isbn)
		return returnDoneMsg(out, err)
	}
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if ViewState(i) == m.view {
			tabs[i] = styles.activeTab.Render(name)
		} else {
			tabs[i] = styles.tab.Render(name)
		}
	}
	return strings.Join(tabs, "")
}

func (m *Model) renderConfirm() string {
	loan := m.selectedLoan
	title := styles.title.Render(fmt.Sprintf("Return '%s'?", loan.Book.Title))
	info := fmt.Sprintf("\nISBN: %s\nBorrower: %s (%s)\nDue: %s\n",
		loan.Book.ISBN, loan.Student.Name, loan.Student.StudentNumber, loan.DueDate.Local().Format(time.DateOnly))
	if loan.Overdue(m.lib.Now()) {
		info += styles.warn.Render(fmt.Sprintf("Overdue by %d days", -loan.DaysRemaining(m.lib.Now()))) + "\n"
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView(helpKeys))
}
