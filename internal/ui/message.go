package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/libratech/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgDataLoaded MsgKind = iota
	MsgReturnDone
)

type loadedData struct {
	books    []models.Book
	students []models.Student
	loans    []models.ActiveLoan
	err      error
}

type returnResult struct {
	outcome models.Outcome
	err     error
}

// dataLoadedMsg is the constructor for [MsgDataLoaded]
func dataLoadedMsg(books []models.Book, students []models.Student, loans []models.ActiveLoan, err error) Msg {
	return Msg{kind: MsgDataLoaded, data: loadedData{books, students, loans, err}}
}

// returnDoneMsg is the constructor for [MsgReturnDone]
func returnDoneMsg(out models.Outcome, err error) Msg {
	return Msg{kind: MsgReturnDone, data: returnResult{out, err}}
}
