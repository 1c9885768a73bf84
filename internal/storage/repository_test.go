package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	ports "budget/internal/sheets"
)

func newTestRepo(t *testing.T, path string) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryGetSet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, filepath.Join(t.TempDir(), "nested", "budget.db"))

	if _, err := repo.Get(ctx, "income"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Set(ctx, "income", `[{"id":1,"source":"Salary","amount":5000}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "income", `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := repo.Set(ctx, "expenses", `[]`); err != nil {
		t.Fatalf("set expenses: %v", err)
	}

	v, err := repo.Get(ctx, "income")
	if err != nil || v != `[]` {
		t.Fatalf("unexpected get: v=%q err=%v", v, err)
	}

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "expenses" || keys[1] != "income" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestSQLiteRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "budget.db")

	first, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, "expenses", `[{"id":2}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := newTestRepo(t, path)
	v, err := second.Get(ctx, "expenses")
	if err != nil || v != `[{"id":2}]` {
		t.Fatalf("value lost across reopen: v=%q err=%v", v, err)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	v1, err := RunMigrations(path)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	v2, err := RunMigrations(path)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if v1 != 1 || v2 != 1 {
		t.Fatalf("unexpected versions: %d, %d", v1, v2)
	}
}

func TestSQLiteRepositoryPingAfterClose(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := repo.Ping(context.Background()); err == nil {
		t.Fatal("expected ping on a closed database to fail")
	}
}
