// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a tabbed browser over the library store:
//  1. [BooksView] : Browse and filter the catalog
//  2. [StudentsView] : Browse and filter the roster
//  3. [LoansView] : Active loans with due dates; overdue loans are flagged
//  4. [ConfirmView] : Confirm returning the selected loan's book
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Store calls run as [tea.Cmd] functions so the interface never blocks on storage.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
