package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/libratech/internal/library"
	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/repositories"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/desertthunder/libratech/internal/storage"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (*Model, *library.Store) {
	t.Helper()
	store := library.NewStore(library.Options{
		KV:     storage.NewMemoryKV(),
		Seed:   true,
		Logger: shared.NewLogger(io.Discard),
		Clock:  func() time.Time { return fixedNow },
	})
	m := NewModel(context.Background(), store)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	run(t, m, m.Init())
	return m, store
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func press(m *Model, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	yes   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
	no    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}
	quit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func TestModel(t *testing.T) {
	t.Run("loads all collections", func(t *testing.T) {
		m, _ := newTestModel(t)
		if got := len(m.bookList.Items()); got != 4 {
			t.Errorf("expected 4 books, got %d", got)
		}
		if got := len(m.studentList.Items()); got != 3 {
			t.Errorf("expected 3 students, got %d", got)
		}
		if got := len(m.loanList.Items()); got != 2 {
			t.Errorf("expected 2 loans, got %d", got)
		}
		if !strings.Contains(m.View(), "Books") {
			t.Errorf("expected tabs in view")
		}
	})

	t.Run("tab cycles views", func(t *testing.T) {
		m, _ := newTestModel(t)
		for _, want := range []ViewState{StudentsView, LoansView, BooksView} {
			press(m, tab)
			if m.view != want {
				t.Fatalf("expected view %d, got %d", want, m.view)
			}
		}
	})

	t.Run("enter outside loans does nothing", func(t *testing.T) {
		m, _ := newTestModel(t)
		press(m, enter)
		if m.view != BooksView {
			t.Errorf("expected to stay on books, got %d", m.view)
		}
	})

	t.Run("return a loan", func(t *testing.T) {
		m, store := newTestModel(t)
		press(m, tab)
		press(m, tab)
		press(m, enter)
		if m.view != ConfirmView || m.selectedLoan == nil {
			t.Fatalf("expected confirm view with selection, got %d", m.view)
		}
		isbn := m.selectedLoan.Book.ISBN
		if !strings.Contains(m.View(), isbn) {
			t.Errorf("confirm view should show ISBN")
		}

		cmd := press(m, yes)
		run(t, m, cmd)
		if m.view != LoansView {
			t.Errorf("expected loans view after return, got %d", m.view)
		}
		if !strings.Contains(m.status, "returned") {
			t.Errorf("expected success status, got %q", m.status)
		}

		book, err := store.FindBookByISBN(context.Background(), isbn)
		if err != nil {
			t.Fatalf("FindBookByISBN: %v", err)
		}
		if book.Status != models.StatusAvailable {
			t.Errorf("expected returned book to be available, got %s", book.Status)
		}
	})

	t.Run("cancel return", func(t *testing.T) {
		m, _ := newTestModel(t)
		press(m, tab)
		press(m, tab)
		press(m, enter)
		if cmd := press(m, no); cmd != nil {
			t.Error("cancel should not issue a command")
		}
		if m.view != LoansView || m.selectedLoan != nil {
			t.Errorf("expected loans view without selection")
		}
	})

	t.Run("quit", func(t *testing.T) {
		m, _ := newTestModel(t)
		cmd := press(m, quit)
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("load errors are shown", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.Update(dataLoadedMsg(nil, nil, nil, errors.New("disk on fire")))
		if !strings.Contains(m.View(), "disk on fire") {
			t.Errorf("expected error in view, got %q", m.View())
		}
	})
}

func TestItems(t *testing.T) {
	loan := models.ActiveLoan{
		Transaction: models.Transaction{DueDate: fixedNow.Add(-5 * 24 * time.Hour)},
		Book:        models.Book{Title: "Kürk Mantolu Madonna", ISBN: repositories.SeedMadonnaISBN},
		Student:     models.Student{Name: "Ali Yılmaz", StudentNumber: "2024001"},
	}
	item := loanItem{loan: loan, now: fixedNow}
	if !strings.Contains(item.Description(), "5 days overdue") {
		t.Errorf("expected overdue marker, got %q", item.Description())
	}
	if !strings.Contains(item.FilterValue(), "Ali Yılmaz") {
		t.Errorf("filter value should include borrower")
	}

	book := bookItem{book: models.Book{Title: "1984", Author: "George Orwell", ISBN: "1", Status: models.StatusBorrowed}}
	if !strings.Contains(book.Description(), "on loan") {
		t.Errorf("expected on-loan marker, got %q", book.Description())
	}
}
