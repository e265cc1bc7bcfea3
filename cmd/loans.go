package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/libratech/internal/formatter"
	"github.com/desertthunder/libratech/internal/library"
	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) printLoans(lib *library.Store, loans []models.ActiveLoan, asJSON bool, empty string) error {
	if asJSON {
		return r.writeJSON(loans, true)
	}
	if len(loans) == 0 {
		return r.writePlain("%s\n", empty)
	}
	return r.writePlain("%s\n%d loan(s)\n", formatter.LoansTable(loans, lib.Now()), len(loans))
}

// LoansList prints active loans.
func (r *Runner) LoansList(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	loans, err := lib.ListActiveLoans(ctx)
	if err != nil {
		return err
	}
	return r.printLoans(lib, loans, cmd.Bool("json"), "No books are on loan.")
}

// LoansOverdue prints loans past their due date.
func (r *Runner) LoansOverdue(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	loans, err := lib.ListOverdueLoans(ctx)
	if err != nil {
		return err
	}
	return r.printLoans(lib, loans, cmd.Bool("json"), "No overdue loans.")
}

// LoansIssue lends a book to a student.
func (r *Runner) LoansIssue(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	isbn, err := requireArg(cmd, "isbn")
	if err != nil {
		return err
	}
	number, err := requireArg(cmd, "number")
	if err != nil {
		return err
	}
	days := int(cmd.Int("days"))
	if days < 0 {
		return fmt.Errorf("%w: --days must not be negative", shared.ErrInvalidFlag)
	}

	out, err := lib.IssueBook(ctx, isbn, number, days)
	if err != nil {
		return err
	}
	return r.report(out, cmd.Bool("json"))
}

// LoansReturn returns a book to inventory.
func (r *Runner) LoansReturn(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	isbn, err := requireArg(cmd, "isbn")
	if err != nil {
		return err
	}
	out, err := lib.ReturnBook(ctx, isbn)
	if err != nil {
		return err
	}
	return r.report(out, cmd.Bool("json"))
}
