package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/libratech/internal/repositories"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/desertthunder/libratech/internal/storage"
	tu "github.com/desertthunder/libratech/internal/testing"
)

// run executes args against a fresh app sharing runner's storage.
func run(t *testing.T, runner *Runner, args ...string) (string, error) {
	t.Helper()
	out := runner.output.(*bytes.Buffer)
	out.Reset()
	app := newApp(runner, runner.logger)
	err := app.Run(context.Background(), append([]string{"libratech"}, args...))
	return out.String(), err
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	kv := storage.NewMemoryKV()
	runner := NewRunner(RunnerOpts{
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: &bytes.Buffer{},
		KV:     kv,
	})
	t.Cleanup(func() { runner.Close() })
	return runner
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			kv := storage.NewMemoryKV()

			runner := NewRunner(RunnerOpts{Config: config, Logger: logger, Output: output, KV: kv})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.kv != kv {
				t.Error("expected kv to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Fatal("expected default config")
			}
			if runner.config.Library.LoanDays != shared.DefaultConfig().Library.LoanDays {
				t.Errorf("expected default loan days, got %d", runner.config.Library.LoanDays)
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to stdout")
			}
		})
	})

	t.Run("Library", func(t *testing.T) {
		t.Run("returns the same store on repeated calls", func(t *testing.T) {
			runner := newTestRunner(t)
			first, err := runner.Library()
			if err != nil {
				t.Fatalf("Library: %v", err)
			}
			second, _ := runner.Library()
			if first != second {
				t.Error("expected cached store")
			}
		})

		t.Run("opens configured file database", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = filepath.Join(t.TempDir(), "lib.db")
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})
			defer runner.Close()

			lib, err := runner.Library()
			if err != nil {
				t.Fatalf("Library: %v", err)
			}
			books, err := lib.ListBooks(context.Background())
			if err != nil {
				t.Fatalf("ListBooks: %v", err)
			}
			if len(books) != 4 {
				t.Errorf("expected 4 seeded books, got %d", len(books))
			}
			tu.AssertFileExists(t, config.Database.Path)
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "books", "students", "loans", "import", "reset", "login", "logout", "whoami", "serve", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestBooksCommands(t *testing.T) {
	runner := newTestRunner(t)

	t.Run("list shows seeded catalog", func(t *testing.T) {
		out, err := run(t, runner, "books", "list")
		if err != nil {
			t.Fatalf("books list: %v", err)
		}
		if !strings.Contains(out, "1984") || !strings.Contains(out, "4 book(s)") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("add then duplicate", func(t *testing.T) {
		out, err := run(t, runner, "books", "add", "--title", "Dune", "--author", "Frank Herbert", "--isbn", "9780441013593")
		if err != nil {
			t.Fatalf("books add: %v", err)
		}
		if !strings.Contains(out, "✓ Book added successfully.") {
			t.Errorf("unexpected output %q", out)
		}

		_, err = run(t, runner, "books", "add", "--title", "Dune again", "--isbn", "9780441013593")
		if !errors.Is(err, shared.ErrDuplicateISBN) {
			t.Errorf("expected ErrDuplicateISBN, got %v", err)
		}
	})

	t.Run("search json", func(t *testing.T) {
		out, err := run(t, runner, "books", "search", "--json", "orwell")
		if err != nil {
			t.Fatalf("books search: %v", err)
		}
		if !strings.Contains(out, `"isbn": "`+repositories.SeedOrwellISBN+`"`) {
			t.Errorf("expected Orwell in JSON output, got %s", out)
		}
	})

	t.Run("delete book on loan fails", func(t *testing.T) {
		_, err := run(t, runner, "books", "delete", repositories.SeedMadonnaISBN)
		if !errors.Is(err, shared.ErrActiveLoans) {
			t.Errorf("expected ErrActiveLoans, got %v", err)
		}
	})

	t.Run("delete unknown isbn", func(t *testing.T) {
		_, err := run(t, runner, "books", "delete", "0000")
		if !errors.Is(err, shared.ErrBookNotFound) {
			t.Errorf("expected ErrBookNotFound, got %v", err)
		}
	})

	t.Run("delete without argument", func(t *testing.T) {
		_, err := run(t, runner, "books", "delete")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("export markdown", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.md")
		out, err := run(t, runner, "books", "export", "--format", "md", "--output", path)
		if err != nil {
			t.Fatalf("books export: %v", err)
		}
		if !strings.Contains(out, path) {
			t.Errorf("expected path in output, got %q", out)
		}
		if !strings.Contains(tu.MustReadFile(t, path), "# Catalog") {
			t.Error("expected markdown heading in export")
		}
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		_, err := run(t, runner, "books", "export", "--format", "xlsx")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestStudentsCommands(t *testing.T) {
	runner := newTestRunner(t)

	t.Run("add and search", func(t *testing.T) {
		if _, err := run(t, runner, "students", "add", "--name", "Zeynep Çelik", "--number", "2024010", "--grade", "12-A"); err != nil {
			t.Fatalf("students add: %v", err)
		}
		out, err := run(t, runner, "students", "search", "celik")
		if err != nil {
			t.Fatalf("students search: %v", err)
		}
		if !strings.Contains(out, "2024010") {
			t.Errorf("expected accent-insensitive match, got:\n%s", out)
		}
	})

	t.Run("history lists previously read books", func(t *testing.T) {
		out, err := run(t, runner, "students", "history", "2024002")
		if err != nil {
			t.Fatalf("students history: %v", err)
		}
		if !strings.Contains(out, "George Orwell - 1984") {
			t.Errorf("unexpected history:\n%s", out)
		}
	})

	t.Run("cards to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cards.txt")
		if _, err := run(t, runner, "students", "cards", "--school", "Ankara High", "--output", path, "2024001"); err != nil {
			t.Fatalf("students cards: %v", err)
		}
		cards := tu.MustReadFile(t, path)
		if !strings.Contains(cards, "ANKARA HIGH") || !strings.Contains(cards, "2024001") {
			t.Errorf("unexpected card:\n%s", cards)
		}
	})

	t.Run("delete student with open loan fails", func(t *testing.T) {
		_, err := run(t, runner, "students", "delete", repositories.SeedFirstStudentNo)
		if !errors.Is(err, shared.ErrActiveLoans) {
			t.Errorf("expected ErrActiveLoans, got %v", err)
		}
	})

	t.Run("delete student without loans", func(t *testing.T) {
		out, err := run(t, runner, "students", "delete", "2024010")
		if err != nil {
			t.Fatalf("students delete: %v", err)
		}
		if !strings.Contains(out, "Student deleted.") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestLoansCommands(t *testing.T) {
	runner := newTestRunner(t)

	t.Run("overdue shows seeded late loan", func(t *testing.T) {
		out, err := run(t, runner, "loans", "overdue")
		if err != nil {
			t.Fatalf("loans overdue: %v", err)
		}
		if !strings.Contains(out, "Kürk Mantolu Madonna") || !strings.Contains(out, "1 loan(s)") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("issue warns on re-read", func(t *testing.T) {
		out, err := run(t, runner, "loans", "issue", "--days", "7", repositories.SeedOrwellISBN, "2024002")
		if err != nil {
			t.Fatalf("loans issue: %v", err)
		}
		if !strings.Contains(out, "✓ Book issued successfully.") || !strings.Contains(out, "! Warning!") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("issue book already on loan", func(t *testing.T) {
		_, err := run(t, runner, "loans", "issue", repositories.SeedOrwellISBN, "2024003")
		if !errors.Is(err, shared.ErrBookOnLoan) {
			t.Errorf("expected ErrBookOnLoan, got %v", err)
		}
	})

	t.Run("issue rejects negative days", func(t *testing.T) {
		_, err := run(t, runner, "loans", "issue", "--days=-1", repositories.SeedCleanCodeISBN, "2024003")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("return then return again", func(t *testing.T) {
		out, err := run(t, runner, "loans", "return", repositories.SeedOrwellISBN)
		if err != nil {
			t.Fatalf("loans return: %v", err)
		}
		if !strings.Contains(out, "returned to inventory") {
			t.Errorf("unexpected output %q", out)
		}

		_, err = run(t, runner, "loans", "return", "--json", repositories.SeedOrwellISBN)
		if !errors.Is(err, shared.ErrNotOnLoan) {
			t.Errorf("expected ErrNotOnLoan, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		out, err := run(t, runner, "loans", "list")
		if err != nil {
			t.Fatalf("loans list: %v", err)
		}
		if !strings.Contains(out, "2 loan(s)") {
			t.Errorf("expected the two seeded loans, got:\n%s", out)
		}
	})
}

func TestImportCommands(t *testing.T) {
	runner := newTestRunner(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "books.csv")
	tu.MustWriteFile(t, path, "Title;Author;ISBN;Category\nDune;Frank Herbert;9780441013593;Science Fiction\n;Nobody;123;\n1984 copy;George Orwell;"+repositories.SeedOrwellISBN+";\n")

	t.Run("dry run writes nothing", func(t *testing.T) {
		out, err := run(t, runner, "import", "books", "--delimiter", ";", "--dry-run", path)
		if err != nil {
			t.Fatalf("import dry-run: %v", err)
		}
		if !strings.Contains(out, "Validated") {
			t.Errorf("unexpected output %q", out)
		}
		lib, _ := runner.Library()
		if _, err := lib.FindBookByISBN(context.Background(), "9780441013593"); !errors.Is(err, shared.ErrBookNotFound) {
			t.Errorf("dry run should not add books, got %v", err)
		}
	})

	t.Run("import reports failures per line", func(t *testing.T) {
		out, err := run(t, runner, "import", "books", "--delimiter", ";", path)
		if err != nil {
			t.Fatalf("import: %v", err)
		}
		if !strings.Contains(out, "Imported 1 of 3") {
			t.Errorf("unexpected summary %q", out)
		}
		if !strings.Contains(out, "line 4") {
			t.Errorf("expected duplicate ISBN failure on line 4, got %q", out)
		}
	})

	t.Run("multi-character delimiter rejected", func(t *testing.T) {
		_, err := run(t, runner, "import", "books", "--delimiter", ";;", path)
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := run(t, runner, "import", "students", filepath.Join(dir, "nope.csv")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestSessionCommands(t *testing.T) {
	runner := newTestRunner(t)

	out, err := run(t, runner, "whoami")
	if err != nil || !strings.Contains(out, "Not signed in") {
		t.Fatalf("expected signed-out message, got %q, %v", out, err)
	}

	if _, err := run(t, runner, "login", "--provider", "google", "--email", "desk@school.example"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err = run(t, runner, "whoami", "--json")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, `"provider": "google"`) || !strings.Contains(out, `"role": "admin"`) {
		t.Errorf("unexpected session %s", out)
	}

	if _, err := run(t, runner, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	out, _ = run(t, runner, "whoami")
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("expected signed-out after logout, got %q", out)
	}
}

func TestResetCommand(t *testing.T) {
	runner := newTestRunner(t)

	if _, err := run(t, runner, "books", "add", "--title", "Dune", "--isbn", "9780441013593"); err != nil {
		t.Fatalf("books add: %v", err)
	}

	if _, err := run(t, runner, "reset"); !errors.Is(err, shared.ErrMissingArgument) {
		t.Fatalf("expected confirmation guard, got %v", err)
	}

	if _, err := run(t, runner, "reset", "--yes"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	out, err := run(t, runner, "books", "list")
	if err != nil {
		t.Fatalf("books list: %v", err)
	}
	if strings.Contains(out, "Dune") || !strings.Contains(out, "4 book(s)") {
		t.Errorf("expected reseeded catalog, got:\n%s", out)
	}
}

func TestSetupDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})
	out, err := run(t, runner, "setup", "database", "--config", filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("setup database: %v", err)
	}
	if !strings.Contains(out, "Database ready") {
		t.Errorf("unexpected output %q", out)
	}
	tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
	tu.AssertFileExists(t, filepath.Join(dir, "libratech.db"))

	out, err = run(t, runner, "setup", "database", "--rollback", "--config", filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if !strings.Contains(out, "Rolled back") {
		t.Errorf("unexpected output %q", out)
	}
}
