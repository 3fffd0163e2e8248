package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "chronos-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteGetMissingKey(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.Get(context.Background(), "absent")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestSQLitePutOverwrites(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	first := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	repo.now = func() time.Time { return first }
	if err := repo.Put(ctx, StateKey, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("first put: %v", err)
	}
	repo.now = func() time.Time { return second }
	if err := repo.Put(ctx, StateKey, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := repo.Get(ctx, StateKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Fatalf("expected overwritten value, got %q", got)
	}
	at, err := repo.UpdatedAt(ctx, StateKey)
	if err != nil {
		t.Fatalf("updated at: %v", err)
	}
	if !at.Equal(second) {
		t.Fatalf("updated_at = %s, want %s", at, second)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	repo, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	_ = repo.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("expected persisted value, got %q err=%v", got, err)
	}
}
