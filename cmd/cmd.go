// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag { return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"} }

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Export format: csv, md, txt",
		Value:   "csv",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path",
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the config file if missing, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// booksCommand handles catalog operations
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"b"},
		Usage:   "Catalog operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every book",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.withLibrary(r.BooksList),
			},
			{
				Name:  "add",
				Usage: "Add a book to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Book title", Required: true},
					&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Author"},
					&cli.StringFlag{Name: "isbn", Aliases: []string{"i"}, Usage: "ISBN or QR code", Required: true},
					&cli.StringFlag{Name: "category", Usage: "Category"},
					jsonFlag(),
				},
				Action: r.withLibrary(r.BooksAdd),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a book by ISBN",
				Arguments: []cli.Argument{&cli.StringArg{Name: "isbn"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.withLibrary(r.BooksDelete),
			},
			{
				Name:      "search",
				Usage:     "Search title, author, ISBN and category",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.withLibrary(r.BooksSearch),
			},
			{
				Name:   "export",
				Usage:  "Export the catalog",
				Flags:  []cli.Flag{formatFlag(), outputFlag()},
				Action: r.withLibrary(r.BooksExport),
			},
		},
	}
}

// studentsCommand handles roster operations
func studentsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "students",
		Aliases: []string{"s"},
		Usage:   "Roster operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every student",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.withLibrary(r.StudentsList),
			},
			{
				Name:  "add",
				Usage: "Register a student",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Full name", Required: true},
					&cli.StringFlag{Name: "number", Usage: "Student number", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Email address"},
					&cli.StringFlag{Name: "grade", Aliases: []string{"g"}, Usage: "Grade or class"},
					jsonFlag(),
				},
				Action: r.withLibrary(r.StudentsAdd),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a student by number",
				Arguments: []cli.Argument{&cli.StringArg{Name: "number"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.withLibrary(r.StudentsDelete),
			},
			{
				Name:      "search",
				Usage:     "Search name, number and grade",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.withLibrary(r.StudentsSearch),
			},
			{
				Name:      "cards",
				Usage:     "Print library cards (all students, or one by number)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "number"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "school", Usage: "Heading printed on each card", Value: "Library Card"},
					outputFlag(),
				},
				Action: r.withLibrary(r.StudentsCards),
			},
			{
				Name:      "history",
				Usage:     "Show a student's reading history",
				Arguments: []cli.Argument{&cli.StringArg{Name: "number"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.withLibrary(r.StudentsHistory),
			},
			{
				Name:   "export",
				Usage:  "Export the roster",
				Flags:  []cli.Flag{formatFlag(), outputFlag()},
				Action: r.withLibrary(r.StudentsExport),
			},
		},
	}
}

// loansCommand handles circulation
func loansCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "loans",
		Aliases: []string{"l"},
		Usage:   "Circulation desk",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List active loans",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.withLibrary(r.LoansList),
			},
			{
				Name:   "overdue",
				Usage:  "List loans past their due date",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.withLibrary(r.LoansOverdue),
			},
			{
				Name:  "issue",
				Usage: "Lend a book to a student",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "isbn"},
					&cli.StringArg{Name: "number"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Usage: "Loan length in days (default from config)"},
					jsonFlag(),
				},
				Action: r.withLibrary(r.LoansIssue),
			},
			{
				Name:      "return",
				Usage:     "Return a book to inventory",
				Arguments: []cli.Argument{&cli.StringArg{Name: "isbn"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.withLibrary(r.LoansReturn),
			},
		},
	}
}

// importCommand handles bulk CSV imports
func importCommand(r *Runner) *cli.Command {
	flags := func() []cli.Flag {
		return []cli.Flag{
			&cli.FloatFlag{Name: "rate", Usage: "Maximum inserts per second (0 = unlimited)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Validate rows without writing"},
			&cli.StringFlag{Name: "delimiter", Usage: "Field delimiter", Value: ","},
		}
	}
	return &cli.Command{
		Name:  "import",
		Usage: "Bulk import from CSV",
		Commands: []*cli.Command{
			{
				Name:      "books",
				Usage:     "Import books (columns: title, author, isbn, category)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags:     flags(),
				Action:    r.withLibrary(r.ImportBooks),
			},
			{
				Name:      "students",
				Usage:     "Import students (columns: name, student number, email, grade)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags:     flags(),
				Action:    r.withLibrary(r.ImportStudents),
			},
		},
	}
}

func resetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete all library data; the next command reseeds the demo data",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation guard"},
		},
		Action: r.withLibrary(r.Reset),
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Start a desk session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "provider", Usage: "Identity provider label (google, microsoft, local)", Value: "local"},
			&cli.StringFlag{Name: "name", Usage: "Display name", Value: "Admin"},
			&cli.StringFlag{Name: "email", Usage: "Email address"},
		},
		Action: r.withLibrary(r.Login),
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "End the desk session",
		Action: r.withLibrary(r.Logout),
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the current desk session",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.withLibrary(r.Whoami),
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default from config)"},
		},
		Action: r.withLibrary(r.Serve),
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse the library in an interactive terminal UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-file", Usage: "Where to write logs while the UI owns the terminal", Value: "./tmp/libratech-tui.log"},
		},
		Action: r.TUI,
	}
}
