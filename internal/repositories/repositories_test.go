package repositories

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/desertthunder/libratech/internal/storage"
)

// setupTestKV creates a migrated in-memory SQLite key-value store.
func setupTestKV(t *testing.T) storage.Store {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDSN)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	kv := storage.NewSQLiteKV(db)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func fixedNow() time.Time {
	return time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)
}

func TestCollection(t *testing.T) {
	ctx := context.Background()

	t.Run("Load seeds and persists", func(t *testing.T) {
		kv := setupTestKV(t)
		repos := New(kv, true, fixedNow)

		books, err := repos.Books.Load(ctx)
		if err != nil {
			t.Fatalf("failed to load books: %v", err)
		}
		if len(books) != 4 {
			t.Fatalf("expected 4 seed books, got %d", len(books))
		}

		raw, err := kv.Get(ctx, BooksKey)
		if err != nil {
			t.Fatalf("seed should be persisted on first load: %v", err)
		}
		if len(raw) == 0 {
			t.Error("persisted seed is empty")
		}
	})

	t.Run("Load without seed is empty", func(t *testing.T) {
		repos := New(setupTestKV(t), false, fixedNow)

		students, err := repos.Students.Load(ctx)
		if err != nil {
			t.Fatalf("failed to load students: %v", err)
		}
		if students == nil || len(students) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", students)
		}
	})

	t.Run("Save and Load round trip", func(t *testing.T) {
		repos := New(setupTestKV(t), false, fixedNow)
		returned := fixedNow().Add(time.Hour)
		txs := []models.Transaction{
			{ID: "t9", BookID: "b2", StudentID: "s1", IssueDate: fixedNow(), DueDate: fixedNow().Add(shared.Days(7)), IsReturned: true, ReturnDate: &returned},
		}

		if err := repos.Transactions.Save(ctx, txs); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		loaded, err := repos.Transactions.Load(ctx)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if len(loaded) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(loaded))
		}
		if loaded[0].ReturnDate == nil || !loaded[0].ReturnDate.Equal(returned) {
			t.Errorf("return date not preserved: %v", loaded[0].ReturnDate)
		}
		if !loaded[0].DueDate.Equal(fixedNow().Add(shared.Days(7))) {
			t.Errorf("due date not preserved: %v", loaded[0].DueDate)
		}
	})

	t.Run("Clear reseeds", func(t *testing.T) {
		repos := New(setupTestKV(t), true, fixedNow)

		if err := repos.Books.Save(ctx, []models.Book{}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		books, _ := repos.Books.Load(ctx)
		if len(books) != 0 {
			t.Fatalf("expected empty catalog, got %d", len(books))
		}

		if err := repos.Books.Clear(ctx); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		books, _ = repos.Books.Load(ctx)
		if len(books) != 4 {
			t.Errorf("expected reseeded catalog of 4, got %d", len(books))
		}
	})

	t.Run("JSON uses camelCase field names", func(t *testing.T) {
		repos := New(setupTestKV(t), false, fixedNow)
		entry, err := repos.Students.Encode([]models.Student{{ID: "s1", Name: "A", StudentNumber: "1", ReadingHistory: []string{"b1"}}})
		if err != nil {
			t.Fatalf("failed to encode: %v", err)
		}
		for _, field := range []string{`"studentNumber"`, `"readingHistory"`} {
			if !strings.Contains(string(entry.Value), field) {
				t.Errorf("encoded student missing %s: %s", field, entry.Value)
			}
		}
	})
}

func TestSeedConsistency(t *testing.T) {
	books := SeedBooks()
	open := map[string]int{}
	for _, tx := range SeedTransactions(fixedNow()) {
		if tx.Open() {
			open[tx.BookID]++
		}
	}

	for _, b := range books {
		if err := b.Validate(); err != nil {
			t.Errorf("seed book %s invalid: %v", b.ID, err)
		}
		want := 0
		if b.Status == models.StatusBorrowed {
			want = 1
		}
		if open[b.ID] != want {
			t.Errorf("book %s status %s has %d open loans", b.ID, b.Status, open[b.ID])
		}
	}

	t1 := SeedTransactions(fixedNow())[0]
	if !t1.Overdue(fixedNow()) {
		t.Error("t1 should be overdue")
	}
}

func TestDocument(t *testing.T) {
	ctx := context.Background()
	repos := New(setupTestKV(t), false, fixedNow)

	if _, ok, err := repos.Session.Load(ctx); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}

	s := models.Session{UserID: "u1", Name: "Admin", Role: models.RoleAdmin, StartedAt: fixedNow()}
	if err := repos.Session.Save(ctx, s); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	got, ok, err := repos.Session.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("expected session, got ok=%v err=%v", ok, err)
	}
	if got.UserID != "u1" || !got.IsAdmin() {
		t.Errorf("unexpected session %+v", got)
	}

	if err := repos.Session.Clear(ctx); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if _, ok, _ := repos.Session.Load(ctx); ok {
		t.Error("session should be gone after clear")
	}
}

func TestHelpers(t *testing.T) {
	books := SeedBooks()

	if IndexOf(books, "b3") != 2 {
		t.Errorf("expected b3 at index 2")
	}
	if IndexOf(books, "zz") != -1 {
		t.Errorf("expected -1 for missing id")
	}

	rest, removed := Remove(books, "b1")
	if !removed || len(rest) != 3 {
		t.Errorf("expected b1 removed, got removed=%v len=%d", removed, len(rest))
	}
	if _, removed := Remove(rest, "b1"); removed {
		t.Error("removing twice should report false")
	}
}
