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

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}

func (r *Runner) printBooks(books []models.Book, asJSON bool) error {
	if asJSON {
		return r.writeJSON(books, true)
	}
	if len(books) == 0 {
		return r.writePlain("No books found.\n")
	}
	return r.writePlain("%s\n%d book(s)\n", formatter.BooksTable(books), len(books))
}

// BooksList prints the catalog.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	books, err := lib.ListBooks(ctx)
	if err != nil {
		return err
	}
	return r.printBooks(books, cmd.Bool("json"))
}

// BooksAdd adds one book from flags.
func (r *Runner) BooksAdd(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	out, err := lib.AddBook(ctx, models.BookInput{
		Title:    cmd.String("title"),
		Author:   cmd.String("author"),
		ISBN:     cmd.String("isbn"),
		Category: cmd.String("category"),
	})
	if err != nil {
		return err
	}
	return r.report(out, cmd.Bool("json"))
}

// BooksDelete removes the book with the given ISBN.
func (r *Runner) BooksDelete(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	isbn, err := requireArg(cmd, "isbn")
	if err != nil {
		return err
	}
	book, err := lib.FindBookByISBN(ctx, isbn)
	if err != nil {
		return err
	}
	out, err := lib.DeleteBook(ctx, book.ID)
	if err != nil {
		return err
	}
	return r.report(out, cmd.Bool("json"))
}

// BooksSearch filters the catalog.
func (r *Runner) BooksSearch(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	books, err := lib.SearchBooks(ctx, cmd.StringArg("query"))
	if err != nil {
		return err
	}
	return r.printBooks(books, cmd.Bool("json"))
}

// BooksExport writes the catalog to a file.
func (r *Runner) BooksExport(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	books, err := lib.ListBooks(ctx)
	if err != nil {
		return err
	}
	data, err := formatter.ExportBooks(books, format)
	if err != nil {
		return err
	}
	path, err := formatter.WriteExport(data, cmd.String("output"), "books", format)
	if err != nil {
		return err
	}
	r.logger.Info("catalog exported", "path", path, "books", len(books))
	return r.writePlain("✓ Exported %d book(s) to %s\n", len(books), path)
}
